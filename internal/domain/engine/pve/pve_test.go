package pve

import (
	"errors"
	"testing"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/patient/patienttest"
	"github.com/neuroped/cds/internal/domain/score"
)

func run(t *testing.T, p patient.Snapshot, vps int) score.Result {
	t.Helper()
	prior := score.NewPrior(score.Result{Engine: score.EngineVPS, Synthesis: score.NewSynthesis(float64(vps))})
	res, err := New().Run(p, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func withDrugs(names ...string) patient.Snapshot {
	return patienttest.With(func(s *patient.Snapshot) { s.Drugs = patienttest.Drugs(names...) })
}

func TestRun_RequiresVPS(t *testing.T) {
	if _, err := New().Run(patienttest.Snapshot(), score.NewPrior()); !errors.Is(err, engine.ErrMissingPrior) {
		t.Fatalf("expected ErrMissingPrior, got %v", err)
	}
}

func TestRun_NoDrugsIsZero(t *testing.T) {
	res := run(t, patienttest.Snapshot(), 10)
	if res.Synthesis.Score != 0 || len(res.Alerts) != 0 {
		t.Errorf("expected 0 with no alerts, got %+v / %v", res.Synthesis, res.Alerts)
	}
}

func TestRead_Load(t *testing.T) {
	tests := []struct {
		names []string
		want  Load
	}{
		{nil, LoadNone},
		{[]string{"levetiracetam"}, LoadMono},
		{[]string{"levetiracetam", "midazolam"}, LoadDual},
		{[]string{"levetiracetam", "midazolam", "ceftriaxone", "acyclovir"}, LoadPoly},
		{[]string{"levetiracetam", "midazolam", "ceftriaxone", "acyclovir", "ivig"}, LoadHeavy},
	}
	for _, tt := range tests {
		if got := Read(withDrugs(tt.names...)).Load; got != tt.want {
			t.Errorf("%v: load = %s, want %s", tt.names, got, tt.want)
		}
	}
}

func TestRead_Immunosuppression(t *testing.T) {
	tests := []struct {
		names []string
		want  Immunosuppression
	}{
		{[]string{"ivig"}, ImmunoNone},
		{[]string{"methylprednisolone"}, ImmunoSteroid},
		{[]string{"rituximab"}, ImmunoBiologic},
		{[]string{"rituximab", "methylprednisolone"}, ImmunoCombined},
		{[]string{"anakinra", "tocilizumab"}, ImmunoCombined},
	}
	for _, tt := range tests {
		if got := Read(withDrugs(tt.names...)).Immunosuppression; got != tt.want {
			t.Errorf("%v: immunosuppression = %s, want %s", tt.names, got, tt.want)
		}
	}
}

func TestRun_CriticalCocktails(t *testing.T) {
	tests := []struct {
		name string
		p    patient.Snapshot
		rule string
	}{
		{"valproate carbapenem", withDrugs("valproate", "meropenem"), "pve-valproate-carbapenem"},
		{"propofol ketogenic", withDrugs("propofol", "ketogenic_diet"), "pve-propofol-ketogenic"},
		{"valproate toddler", patienttest.With(func(s *patient.Snapshot) {
			s.AgeMonths = 18
			s.Drugs = patienttest.Drugs("valproate")
		}), "pve-valproate-infant"},
		{"immunosuppression with infection", patienttest.With(func(s *patient.Snapshot) {
			s.PCT = 4
			s.Drugs = patienttest.Drugs("methylprednisolone", "ceftriaxone")
		}), "pve-immunosuppression-infection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.p, 10)
			if !res.Fired(tt.rule) {
				t.Fatalf("expected %s to fire, got %v", tt.rule, res.Rules.Fired)
			}
			var critical bool
			for _, a := range res.Alerts {
				if a.Rule == tt.rule && a.Severity == score.SeverityCritical {
					critical = true
				}
			}
			if !critical {
				t.Errorf("expected critical alert for %s regardless of score %d", tt.rule, res.Synthesis.Score)
			}
		})
	}
}

func TestRun_ValproateCarbapenemScore(t *testing.T) {
	// dual load 5 + contraindication 25
	res := run(t, withDrugs("valproate", "meropenem"), 10)
	if res.Synthesis.Score != 30 || res.Synthesis.Level != score.LevelModerate {
		t.Errorf("expected 30/moderate, got %+v", res.Synthesis)
	}
}

func TestRun_WarningRules(t *testing.T) {
	tests := []struct {
		name string
		p    patient.Snapshot
		rule string
	}{
		{"hepatotoxic", withDrugs("valproate", "phenytoin", "paracetamol"), "pve-hepatotoxic-load"},
		{"nephrotoxic", withDrugs("vancomycin", "gentamicin"), "pve-vanco-aminoglycoside"},
		{"sedation", withDrugs("midazolam_infusion", "ketamine", "fentanyl"), "pve-cns-depressants"},
		{"nsaid", withDrugs("aspirin", "ibuprofen"), "pve-aspirin-ibuprofen"},
		{"uncovered", withDrugs("rituximab", "methylprednisolone"), "pve-immunosuppression-uncovered"},
		{"ivig plex", withDrugs("ivig", "plasma_exchange"), "pve-ivig-plex"},
		{"pims aspirin", patienttest.With(func(s *patient.Snapshot) {
			s.Syndromes.PIMSConfirmed = true
			s.Platelets = 80
			s.Drugs = patienttest.Drugs("aspirin")
		}), "pve-pims-aspirin-thrombocytopenia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.p, 10)
			if !res.Fired(tt.rule) {
				t.Fatalf("expected %s to fire, got %v", tt.rule, res.Rules.Fired)
			}
			for _, a := range res.Alerts {
				if a.Rule == tt.rule && a.Severity != score.SeverityWarning {
					t.Errorf("expected warning severity, got %s", a.Severity)
				}
			}
		})
	}
}

func TestRun_IL6InfoDoesNotScore(t *testing.T) {
	res := run(t, withDrugs("tocilizumab"), 10)
	if !res.Fired("pve-il6-masks-crp") {
		t.Fatal("expected IL-6 rule to fire")
	}
	if res.Rules.Partial != 0 {
		t.Errorf("expected informational rule to contribute 0, got %v", res.Rules.Partial)
	}
	if len(res.Alerts) != 1 || res.Alerts[0].Severity != score.SeverityInfo {
		t.Errorf("expected one info alert, got %v", res.Alerts)
	}
}

func TestRun_Context(t *testing.T) {
	p := withDrugs("levetiracetam")
	base := run(t, p, 10).Synthesis.Score
	critical := run(t, p, 80).Synthesis.Score
	if critical-base != 5 {
		t.Errorf("expected critical VPS to add 5, got %d -> %d", base, critical)
	}
	late := run(t, patienttest.With(func(s *patient.Snapshot) {
		s.HospDay = 14
		s.Drugs = patienttest.Drugs("levetiracetam")
	}), 10).Synthesis.Score
	if late-base != 3 {
		t.Errorf("expected day 14 to add 3, got %d -> %d", base, late)
	}
}

func TestRun_CurveEncephalopathy(t *testing.T) {
	worsening := func(names ...string) patient.Snapshot {
		return patienttest.With(func(s *patient.Snapshot) {
			s.GCSHistory = []int{15, 14}
			s.GCS = 12
			s.Drugs = patienttest.Drugs(names...)
		})
	}
	res := run(t, worsening("midazolam", "phenobarbital"), 30)
	if !res.Fired("pve-curve-encephalopathy") || res.Curve.Partial != 5 {
		t.Errorf("expected encephalopathy curve rule, got %+v", res.Curve)
	}
	res = run(t, worsening("midazolam"), 30)
	if res.Fired("pve-curve-encephalopathy") {
		t.Error("a single depressant must not raise the encephalopathy alert")
	}
}
