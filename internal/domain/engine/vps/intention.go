package vps

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Consciousness bucket derived from GCS.
type Consciousness string

const (
	ConsciousnessUnknown  Consciousness = "unknown"
	ConsciousnessNormal   Consciousness = "normal"
	ConsciousnessMild     Consciousness = "mild"
	ConsciousnessModerate Consciousness = "moderate"
	ConsciousnessComa     Consciousness = "coma"
)

// SeizureBurden grades epileptic activity, ordered by severity.
type SeizureBurden int

const (
	BurdenNone SeizureBurden = iota
	BurdenIsolated
	BurdenCluster
	BurdenStatus
	BurdenRefractory
)

func (b SeizureBurden) String() string {
	return [...]string{"none", "isolated", "cluster", "status", "refractory"}[b]
}

// Inflammation grades the systemic inflammatory picture.
type Inflammation string

const (
	InflammationNone  Inflammation = "none"
	InflammationMild  Inflammation = "mild"
	InflammationHigh  Inflammation = "high"
	InflammationStorm Inflammation = "storm"
)

// Hemodynamics grades circulatory status against age norms.
type Hemodynamics string

const (
	HemoStable      Hemodynamics = "stable"
	HemoCompromised Hemodynamics = "compromised"
	HemoShock       Hemodynamics = "shock"
)

// Intention is the semantic reading of a snapshot.
type Intention struct {
	Consciousness Consciousness
	Seizures      SeizureBurden
	Inflammation  Inflammation
	Hemodynamics  Hemodynamics
}

var (
	consciousnessPoints = map[Consciousness]float64{
		ConsciousnessNormal:   0,
		ConsciousnessMild:     10,
		ConsciousnessModerate: 20,
		ConsciousnessComa:     35,
		ConsciousnessUnknown:  20,
	}
	burdenPoints = map[SeizureBurden]float64{
		BurdenNone:       0,
		BurdenIsolated:   5,
		BurdenCluster:    12,
		BurdenStatus:     20,
		BurdenRefractory: 30,
	}
	inflammationPoints = map[Inflammation]float64{
		InflammationNone:  0,
		InflammationMild:  3,
		InflammationHigh:  8,
		InflammationStorm: 15,
	}
	hemoPoints = map[Hemodynamics]float64{
		HemoStable:      0,
		HemoCompromised: 8,
		HemoShock:       18,
	}
)

func readConsciousness(gcs int) Consciousness {
	switch {
	case gcs == 15:
		return ConsciousnessNormal
	case gcs >= 13 && gcs <= 14:
		return ConsciousnessMild
	case gcs >= 9 && gcs <= 12:
		return ConsciousnessModerate
	case gcs >= 3 && gcs <= 8:
		return ConsciousnessComa
	}
	return ConsciousnessUnknown
}

func readSeizures(p patient.Snapshot) SeizureBurden {
	switch {
	case p.SeizureType == patient.SeizureRefractory:
		return BurdenRefractory
	case p.SeizureType == patient.SeizureStatus, p.SeizureDurationMin >= engine.StatusMinutes:
		return BurdenStatus
	case p.Seizures24h >= 3:
		return BurdenCluster
	case p.Seizures24h >= 1:
		return BurdenIsolated
	}
	switch p.SeizureType {
	case patient.SeizureFocal, patient.SeizureGeneralized, patient.SeizureMyoclonic:
		return BurdenIsolated
	}
	return BurdenNone
}

func readInflammation(p patient.Snapshot) Inflammation {
	switch {
	case p.Ferritin >= engine.StormFerritin, p.CRP >= engine.StormCRP:
		return InflammationStorm
	case p.CRP >= engine.HighCRP, p.PCT >= engine.HighPCT, p.Temp >= engine.HighFeverC:
		return InflammationHigh
	case p.CRP >= 5, p.Temp >= engine.FeverC:
		return InflammationMild
	}
	return InflammationNone
}

func readHemodynamics(p patient.Snapshot) Hemodynamics {
	n := engine.NormsFor(p.AgeMonths)
	switch {
	case p.SBP < n.SBPMin, p.Lactate >= engine.HighLactate:
		return HemoShock
	case p.HeartRate > n.HRMax, p.SpO2 < 92, p.Lactate >= 2:
		return HemoCompromised
	}
	return HemoStable
}

// Read extracts the intention of a snapshot.
func Read(p patient.Snapshot) Intention {
	return Intention{
		Consciousness: readConsciousness(p.GCS),
		Seizures:      readSeizures(p),
		Inflammation:  readInflammation(p),
		Hemodynamics:  readHemodynamics(p),
	}
}

// Points is the intention contribution before context modifiers.
func (in Intention) Points() float64 {
	return consciousnessPoints[in.Consciousness] +
		burdenPoints[in.Seizures] +
		inflammationPoints[in.Inflammation] +
		hemoPoints[in.Hemodynamics]
}

func (in Intention) layer() score.Layer {
	return score.Layer{
		Signals: map[string]string{
			"consciousness": string(in.Consciousness),
			"seizures":      in.Seizures.String(),
			"inflammation":  string(in.Inflammation),
			"hemodynamics":  string(in.Hemodynamics),
			"points":        strconv.FormatFloat(in.Points(), 'f', -1, 64),
		},
		Partial: in.Points(),
	}
}
