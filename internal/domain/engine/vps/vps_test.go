package vps

import (
	"testing"

	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/patient/patienttest"
	"github.com/neuroped/cds/internal/domain/score"
)

func run(t *testing.T, p patient.Snapshot) score.Result {
	t.Helper()
	res, err := New().Run(p, score.NewPrior())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestRun_NominalIsStable(t *testing.T) {
	res := run(t, patienttest.Snapshot())
	if res.Synthesis.Score != 0 || res.Synthesis.Level != score.LevelStable {
		t.Errorf("expected 0/stable, got %+v", res.Synthesis)
	}
	if len(res.Alerts) != 0 || len(res.Rules.Fired) != 0 {
		t.Errorf("expected no alerts or rules, got %v / %v", res.Alerts, res.Rules.Fired)
	}
	if res.Engine != score.EngineVPS {
		t.Errorf("expected engine vps, got %s", res.Engine)
	}
}

func TestRun_RefractoryComaIsCritical(t *testing.T) {
	p := patienttest.With(func(s *patient.Snapshot) {
		s.GCS = 7
		s.GCSHistory = []int{7}
		s.SeizureType = patient.SeizureRefractory
		s.Seizures24h = 6
		s.SeizureDurationMin = 45
		s.Temp = 38.6
		s.CRP = 45
	})
	res := run(t, p)
	if res.Synthesis.Score < 70 || res.Synthesis.Level != score.LevelCritical {
		t.Fatalf("expected critical score >= 70, got %+v", res.Synthesis)
	}
	for _, id := range []string{"vps-rse", "vps-coma", "vps-febrile-cluster"} {
		if !res.Fired(id) {
			t.Errorf("expected %s to fire", id)
		}
	}
	var critical int
	for _, a := range res.Alerts {
		if a.Severity == score.SeverityCritical && (a.Rule == "vps-rse" || a.Rule == "vps-coma") {
			critical++
		}
	}
	if critical != 2 {
		t.Errorf("expected critical seizure and consciousness alerts, got %v", res.Alerts)
	}
}

func TestRead_Buckets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*patient.Snapshot)
		want   Intention
	}{
		{"nominal", func(*patient.Snapshot) {}, Intention{ConsciousnessNormal, BurdenNone, InflammationNone, HemoStable}},
		{"mild drowsy", func(s *patient.Snapshot) { s.GCS = 13 }, Intention{ConsciousnessMild, BurdenNone, InflammationNone, HemoStable}},
		{"moderate", func(s *patient.Snapshot) { s.GCS = 9 }, Intention{ConsciousnessModerate, BurdenNone, InflammationNone, HemoStable}},
		{"out of scale", func(s *patient.Snapshot) { s.GCS = 0 }, Intention{ConsciousnessUnknown, BurdenNone, InflammationNone, HemoStable}},
		{"isolated", func(s *patient.Snapshot) { s.Seizures24h = 1 }, Intention{ConsciousnessNormal, BurdenIsolated, InflammationNone, HemoStable}},
		{"cluster", func(s *patient.Snapshot) { s.Seizures24h = 3 }, Intention{ConsciousnessNormal, BurdenCluster, InflammationNone, HemoStable}},
		{"long seizure", func(s *patient.Snapshot) { s.SeizureDurationMin = 5 }, Intention{ConsciousnessNormal, BurdenStatus, InflammationNone, HemoStable}},
		{"mild fever", func(s *patient.Snapshot) { s.Temp = 38 }, Intention{ConsciousnessNormal, BurdenNone, InflammationMild, HemoStable}},
		{"high pct", func(s *patient.Snapshot) { s.PCT = 2 }, Intention{ConsciousnessNormal, BurdenNone, InflammationHigh, HemoStable}},
		{"storm", func(s *patient.Snapshot) { s.Ferritin = 1000 }, Intention{ConsciousnessNormal, BurdenNone, InflammationStorm, HemoStable}},
		{"tachycardia", func(s *patient.Snapshot) { s.HeartRate = 131 }, Intention{ConsciousnessNormal, BurdenNone, InflammationNone, HemoCompromised}},
		{"hypotension", func(s *patient.Snapshot) { s.SBP = 80 }, Intention{ConsciousnessNormal, BurdenNone, InflammationNone, HemoShock}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Read(patienttest.With(tt.mutate)); got != tt.want {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRun_InfantFactor(t *testing.T) {
	child := run(t, patienttest.With(func(s *patient.Snapshot) { s.GCS = 10; s.GCSHistory = nil }))
	infant := run(t, patienttest.With(func(s *patient.Snapshot) {
		s.GCS = 10
		s.GCSHistory = nil
		s.AgeMonths = 6
		s.SBP = 85
		s.HeartRate = 130
	}))
	if child.Synthesis.Score != 20 {
		t.Errorf("expected child score 20, got %d", child.Synthesis.Score)
	}
	if infant.Synthesis.Score != 23 {
		t.Errorf("expected infant score 23, got %d", infant.Synthesis.Score)
	}
}

func TestRun_HospitalDay(t *testing.T) {
	for _, tt := range []struct{ day, want int }{{6, 0}, {7, 3}, {14, 5}} {
		res := run(t, patienttest.With(func(s *patient.Snapshot) { s.HospDay = tt.day }))
		if res.Synthesis.Score != tt.want {
			t.Errorf("hospDay %d: expected %d, got %d", tt.day, tt.want, res.Synthesis.Score)
		}
	}
}

func TestRun_CurveWorsening(t *testing.T) {
	res := run(t, patienttest.With(func(s *patient.Snapshot) {
		s.GCSHistory = []int{15, 15, 14, 13}
		s.GCS = 12
	}))
	// moderate 20 + curve 2*3
	if res.Synthesis.Score != 26 {
		t.Errorf("expected 26, got %d", res.Synthesis.Score)
	}
	if !res.Fired("vps-curve-worsening") {
		t.Error("expected worsening curve rule")
	}
	if len(res.Alerts) != 1 || res.Alerts[0].Severity != score.SeverityWarning {
		t.Errorf("expected one warning alert, got %v", res.Alerts)
	}
}

func TestRun_CurveImprovingNeverNegative(t *testing.T) {
	res := run(t, patienttest.With(func(s *patient.Snapshot) { s.GCSHistory = []int{10, 12} }))
	if res.Synthesis.Score != 0 {
		t.Errorf("expected clamp to 0, got %d", res.Synthesis.Score)
	}
	if !res.Fired("vps-curve-improving") {
		t.Error("expected improving curve rule")
	}
}

func TestRun_BandingConsistent(t *testing.T) {
	cases := []func(*patient.Snapshot){
		func(*patient.Snapshot) {},
		func(s *patient.Snapshot) { s.GCS = 12 },
		func(s *patient.Snapshot) { s.GCS = 8; s.Seizures24h = 4 },
		func(s *patient.Snapshot) { s.Pupils = patient.PupilsFixedBoth; s.GCS = 5; s.Lactate = 6 },
	}
	for i, m := range cases {
		res := run(t, patienttest.With(m))
		if res.Synthesis.Level != score.Band(res.Synthesis.Score) {
			t.Errorf("case %d: level %s inconsistent with score %d", i, res.Synthesis.Level, res.Synthesis.Score)
		}
		if res.Synthesis.Score < 0 || res.Synthesis.Score > 100 {
			t.Errorf("case %d: score %d out of range", i, res.Synthesis.Score)
		}
	}
}
