package engine

import "github.com/neuroped/cds/internal/domain/patient"

// Shared clinical thresholds.
const (
	FeverC           = 38.0
	HighFeverC       = 38.5
	StormFerritin    = 1000.0
	StormCRP         = 100.0
	HighCRP          = 20.0
	HighPCT          = 2.0
	Thrombocytopenia = 100.0
	HighLactate      = 4.0
	Pleocytosis      = 5.0
	StatusMinutes    = 5.0
)

// InfectionSuspected reports a likely active infection: a bacterial-range
// procalcitonin, or CSF pleocytosis with fever.
func InfectionSuspected(p patient.Snapshot) bool {
	return p.PCT >= HighPCT || (p.CSFCells >= Pleocytosis && p.Temp >= FeverC)
}

// Hyperinflammatory reports a cytokine-storm picture.
func Hyperinflammatory(p patient.Snapshot) bool {
	return p.Ferritin >= StormFerritin || p.CRP >= StormCRP || p.Syndromes.MASConfirmed
}

// Refractory reports refractory status epilepticus.
func Refractory(p patient.Snapshot) bool {
	return p.SeizureType == patient.SeizureRefractory
}
