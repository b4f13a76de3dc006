// Package patienttest provides nominal patient data for tests.
package patienttest

import "github.com/neuroped/cds/internal/domain/patient"

// Snapshot returns a stable six-year-old with normal vitals and no treatment.
func Snapshot() patient.Snapshot {
	return patient.Snapshot{
		AgeMonths: 72, WeightKg: 21, Sex: patient.SexFemale, HospDay: 1,
		GCS: 15, GCSHistory: []int{15, 15}, Pupils: patient.PupilsReactive,
		SeizureType: patient.SeizureNone,
		CRP:         2, PCT: 0.1, Ferritin: 60, WBC: 8, Platelets: 260, Lactate: 1.1,
		HeartRate: 95, SBP: 102, DBP: 62, SpO2: 99, Temp: 36.8, RespRate: 22,
		CSFCells: 1, CSFProtein: 0.25, CSFAntibodies: patient.AntibodyNegative,
		Drugs: []patient.Drug{},
	}
}

// With returns the nominal snapshot after applying mutate.
func With(mutate func(*patient.Snapshot)) patient.Snapshot {
	s := Snapshot()
	mutate(&s)
	return s
}

// Drugs builds a drug list from names.
func Drugs(names ...string) []patient.Drug {
	out := make([]patient.Drug, 0, len(names))
	for _, n := range names {
		out = append(out, patient.Drug{Name: n})
	}
	return out
}
