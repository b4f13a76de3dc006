package patient

import (
	"fmt"
	"math"
	"strings"
)

// MaxGCSHistory bounds the stored consciousness series.
const MaxGCSHistory = 48

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned by New when the input cannot form a record.
// No record exists when it is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid patient data: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type validator struct {
	errs []FieldError
}

func (v *validator) fail(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (v *validator) float(field string, p *float64, lo, hi float64) float64 {
	if p == nil {
		v.fail(field, "is required")
		return 0
	}
	x := *p
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.fail(field, "must be a finite number")
		return 0
	}
	if x < lo || x > hi {
		v.fail(field, "must be between %g and %g, got %g", lo, hi, x)
	}
	return x
}

func (v *validator) int(field string, p *int, lo, hi int) int {
	if p == nil {
		v.fail(field, "is required")
		return 0
	}
	if *p < lo || *p > hi {
		v.fail(field, "must be between %d and %d, got %d", lo, hi, *p)
	}
	return *p
}

func (v *validator) str(field string, p *string) (string, bool) {
	if p == nil {
		v.fail(field, "is required")
		return "", false
	}
	return *p, true
}

// New validates raw input and constructs a record with all engine slots
// unset and empty alert/recommendation sequences.
func New(in Input) (*Record, error) {
	var v validator
	var s Snapshot

	s.AgeMonths = v.float("age", in.Age, 0, 216)
	s.WeightKg = v.float("weight", in.Weight, 0.3, 200)
	if raw, ok := v.str("sex", in.Sex); ok {
		if s.Sex, ok = ParseSex(raw); !ok {
			v.fail("sex", "unknown value %q", raw)
		}
	}
	s.HospDay = v.int("hospDay", in.HospDay, 1, 365)

	s.GCS = v.int("gcs", in.GCS, 3, 15)
	switch {
	case in.GCSHistory == nil:
		v.fail("gcsHistory", "is required")
	case len(in.GCSHistory) > MaxGCSHistory:
		v.fail("gcsHistory", "must hold at most %d entries, got %d", MaxGCSHistory, len(in.GCSHistory))
	default:
		s.GCSHistory = make([]int, 0, len(in.GCSHistory))
		for i, g := range in.GCSHistory {
			if g < 3 || g > 15 {
				v.fail(fmt.Sprintf("gcsHistory[%d]", i), "must be between 3 and 15, got %d", g)
			}
			s.GCSHistory = append(s.GCSHistory, g)
		}
	}
	if raw, ok := v.str("pupils", in.Pupils); ok {
		if s.Pupils, ok = ParsePupils(raw); !ok {
			v.fail("pupils", "unknown value %q", raw)
		}
	}
	s.Seizures24h = v.int("seizures24h", in.Seizures24h, 0, 500)
	s.SeizureDurationMin = v.float("seizureDuration", in.SeizureDuration, 0, 10080)
	if raw, ok := v.str("seizureType", in.SeizureType); ok {
		if s.SeizureType, ok = ParseSeizureType(raw); !ok {
			v.fail("seizureType", "unknown value %q", raw)
		}
	}

	s.CRP = v.float("crp", in.CRP, 0, 1000)
	s.PCT = v.float("pct", in.PCT, 0, 1000)
	s.Ferritin = v.float("ferritin", in.Ferritin, 0, 200000)
	s.WBC = v.float("wbc", in.WBC, 0, 500)
	s.Platelets = v.float("platelets", in.Platelets, 0, 3000)
	s.Lactate = v.float("lactate", in.Lactate, 0, 40)

	s.HeartRate = v.float("heartRate", in.HeartRate, 20, 300)
	s.SBP = v.float("sbp", in.SBP, 30, 250)
	s.DBP = v.float("dbp", in.DBP, 10, 200)
	if in.SBP != nil && in.DBP != nil && *in.DBP >= *in.SBP {
		v.fail("dbp", "must be lower than sbp")
	}
	s.SpO2 = v.float("spo2", in.SpO2, 0, 100)
	s.Temp = v.float("temp", in.Temp, 30, 45)
	s.RespRate = v.float("respRate", in.RespRate, 4, 120)

	s.CSFCells = v.float("csfCells", in.CSFCells, 0, 100000)
	s.CSFProtein = v.float("csfProtein", in.CSFProtein, 0, 30)
	if raw, ok := v.str("csfAntibodies", in.CSFAntibodies); ok {
		if s.CSFAntibodies, ok = ParseAntibody(raw); !ok {
			v.fail("csfAntibodies", "unknown value %q", raw)
		}
	}

	if in.Drugs == nil {
		v.fail("drugs", "is required")
	} else {
		s.Drugs = make([]Drug, 0, len(in.Drugs))
		for i, d := range in.Drugs {
			if strings.TrimSpace(d.Name) == "" {
				v.fail(fmt.Sprintf("drugs[%d].name", i), "is required")
				continue
			}
			s.Drugs = append(s.Drugs, d)
		}
	}
	if in.Syndromes != nil {
		s.Syndromes = *in.Syndromes
	}

	if len(v.errs) > 0 {
		return nil, &ValidationError{Fields: v.errs}
	}
	rec := &Record{data: s}
	rec.Reset()
	return rec, nil
}
