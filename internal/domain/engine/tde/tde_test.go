package tde

import (
	"errors"
	"testing"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/patient/patienttest"
	"github.com/neuroped/cds/internal/domain/score"
)

func vpsPrior(s int) score.Prior {
	return score.NewPrior(score.Result{Engine: score.EngineVPS, Synthesis: score.NewSynthesis(float64(s))})
}

func run(t *testing.T, p patient.Snapshot, vps int) score.Result {
	t.Helper()
	res, err := New().Run(p, vpsPrior(vps))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestRun_RequiresVPS(t *testing.T) {
	_, err := New().Run(patienttest.Snapshot(), score.NewPrior())
	if !errors.Is(err, engine.ErrMissingPrior) {
		t.Fatalf("expected ErrMissingPrior, got %v", err)
	}
}

func TestRun_OrderDependency(t *testing.T) {
	p := patienttest.Snapshot()
	low := run(t, p, 20)
	high := run(t, p, 80)

	if got := low.Rules.Signal(SignalLine); got != "L1" {
		t.Errorf("low VPS: expected L1, got %s", got)
	}
	if got := high.Rules.Signal(SignalLine); got != "L3" {
		t.Errorf("high VPS: expected L3, got %s", got)
	}
	if low.Synthesis.Score != 5 {
		t.Errorf("low VPS: expected 5, got %d", low.Synthesis.Score)
	}
	// L3 55 + critical VPS context 10
	if high.Synthesis.Score != 65 {
		t.Errorf("high VPS: expected 65, got %d", high.Synthesis.Score)
	}
}

func TestSelectLine(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*patient.Snapshot)
		vps    int
		want   int
	}{
		{"stable", func(*patient.Snapshot) {}, 10, 1},
		{"moderate vps", func(*patient.Snapshot) {}, 45, 1},
		{"severe vps", func(*patient.Snapshot) {}, 60, 2},
		{"first line failed", func(s *patient.Snapshot) {
			s.Seizures24h = 2
			s.Drugs = patienttest.Drugs("midazolam")
		}, 10, 2},
		{"first line given, seizures controlled", func(s *patient.Snapshot) {
			s.Drugs = patienttest.Drugs("lorazepam")
		}, 10, 1},
		{"refractory", func(s *patient.Snapshot) { s.SeizureType = patient.SeizureRefractory }, 40, 3},
		{"refractory with critical vps", func(s *patient.Snapshot) { s.SeizureType = patient.SeizureRefractory }, 90, 4},
		{"third line failed", func(s *patient.Snapshot) {
			s.Seizures24h = 1
			s.Drugs = patienttest.Drugs("rituximab")
		}, 75, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, patienttest.With(tt.mutate), tt.vps)
			if !res.Fired(LineID(tt.want)) {
				t.Errorf("expected %s, got rules %v", LineID(tt.want), res.Rules.Fired)
			}
			lines := 0
			for _, f := range res.Rules.Fired {
				for l := 1; l <= 4; l++ {
					if f.ID == LineID(l) {
						lines++
					}
				}
			}
			if lines != 1 {
				t.Errorf("expected exactly one line selected, got %d", lines)
			}
		})
	}
}

func TestRead_Etiology(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*patient.Snapshot)
		want   Etiology
	}{
		{"undetermined", func(*patient.Snapshot) {}, EtiologyUndetermined},
		{"nmdar", func(s *patient.Snapshot) { s.CSFAntibodies = patient.AntibodyNMDAR }, EtiologyNMDAR},
		{"mog", func(s *patient.Snapshot) { s.CSFAntibodies = patient.AntibodyMOG }, EtiologyMOG},
		{"gad", func(s *patient.Snapshot) { s.CSFAntibodies = patient.AntibodyGAD }, EtiologyAutoimmune},
		{"fires", func(s *patient.Snapshot) { s.SeizureType = patient.SeizureRefractory; s.Temp = 38.4 }, EtiologyFIRES},
		{"cytokine", func(s *patient.Snapshot) { s.Ferritin = 2400 }, EtiologyCytokine},
		{"infectious", func(s *patient.Snapshot) { s.CSFCells = 40; s.Temp = 38.2 }, EtiologyInfectious},
		{"antibody wins", func(s *patient.Snapshot) { s.CSFAntibodies = patient.AntibodyNMDAR; s.Ferritin = 2400 }, EtiologyNMDAR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Read(patienttest.With(tt.mutate)).Etiology; got != tt.want {
				t.Errorf("etiology = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRun_TableRules(t *testing.T) {
	res := run(t, patienttest.With(func(s *patient.Snapshot) {
		s.SeizureType = patient.SeizureRefractory
		s.Temp = 38.9
		s.PCT = 3
	}), 60)
	for _, id := range []string{"tde-fires", "tde-rse-no-anaesthetic", "tde-seizures-no-benzo", "tde-infection-uncovered"} {
		if !res.Fired(id) {
			t.Errorf("expected %s to fire", id)
		}
	}
	if res.Fired("tde-cytokine-storm") {
		t.Error("cytokine storm must not fire on nominal ferritin")
	}
	var critical bool
	for _, a := range res.Alerts {
		if a.Rule == "tde-rse-no-anaesthetic" && a.Severity == score.SeverityCritical && a.Source == score.EngineTDE {
			critical = true
		}
	}
	if !critical {
		t.Errorf("expected critical anaesthetic alert, got %v", res.Alerts)
	}

	covered := run(t, patienttest.With(func(s *patient.Snapshot) {
		s.SeizureType = patient.SeizureRefractory
		s.PCT = 3
		s.Drugs = patienttest.Drugs("midazolam", "ketamine", "acyclovir")
	}), 60)
	for _, id := range []string{"tde-rse-no-anaesthetic", "tde-seizures-no-benzo", "tde-infection-uncovered"} {
		if covered.Fired(id) {
			t.Errorf("expected %s suppressed by treatment", id)
		}
	}
}

func TestRun_CurveRecommendation(t *testing.T) {
	res := run(t, patienttest.With(func(s *patient.Snapshot) {
		s.GCSHistory = []int{14, 12}
		s.GCS = 11
	}), 25)
	var found bool
	for _, r := range res.Recommendations {
		if r.Rule == "tde-curve-worsening" && r.Priority == score.PriorityUrgent {
			found = true
		}
	}
	if !found {
		t.Errorf("expected urgent reassessment, got %v", res.Recommendations)
	}
	if res.Curve.Partial != 6 {
		t.Errorf("expected curve partial 6, got %v", res.Curve.Partial)
	}
}
