package tde

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/engine/drugs"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Etiology is the working etiological hypothesis.
type Etiology string

const (
	EtiologyNMDAR        Etiology = "autoimmune_nmdar"
	EtiologyMOG          Etiology = "autoimmune_mog"
	EtiologyAutoimmune   Etiology = "autoimmune_other"
	EtiologyFIRES        Etiology = "fires"
	EtiologyCytokine     Etiology = "cytokine"
	EtiologyInfectious   Etiology = "infectious"
	EtiologyUndetermined Etiology = "undetermined"
)

// Autoimmune reports antibody-mediated etiologies.
func (e Etiology) Autoimmune() bool {
	return e == EtiologyNMDAR || e == EtiologyMOG || e == EtiologyAutoimmune
}

// Control is the current seizure control.
type Control string

const (
	ControlControlled Control = "controlled"
	ControlActive     Control = "active"
	ControlRefractory Control = "refractory"
)

// Intention is the therapeutic reading of a snapshot.
type Intention struct {
	Etiology Etiology
	Control  Control
	// Given[i] reports whether any agent of line i+1 was administered.
	Given [4]bool
	Drugs drugs.Set
}

var etiologyPoints = map[Etiology]float64{
	EtiologyFIRES:        10,
	EtiologyCytokine:     8,
	EtiologyNMDAR:        5,
	EtiologyInfectious:   5,
	EtiologyMOG:          3,
	EtiologyAutoimmune:   3,
	EtiologyUndetermined: 0,
}

func readEtiology(p patient.Snapshot) Etiology {
	switch p.CSFAntibodies {
	case patient.AntibodyNMDAR:
		return EtiologyNMDAR
	case patient.AntibodyMOG:
		return EtiologyMOG
	case patient.AntibodyGAD, patient.AntibodyOther:
		return EtiologyAutoimmune
	}
	switch {
	case p.Syndromes.FIRESConfirmed,
		engine.Refractory(p) && p.Temp >= engine.FeverC:
		return EtiologyFIRES
	case p.Syndromes.PIMSConfirmed, engine.Hyperinflammatory(p):
		return EtiologyCytokine
	case engine.InfectionSuspected(p):
		return EtiologyInfectious
	}
	return EtiologyUndetermined
}

func readControl(p patient.Snapshot) Control {
	switch p.SeizureType {
	case patient.SeizureRefractory:
		return ControlRefractory
	case patient.SeizureStatus, patient.SeizureFocal, patient.SeizureGeneralized, patient.SeizureMyoclonic:
		return ControlActive
	}
	if p.Seizures24h > 0 {
		return ControlActive
	}
	return ControlControlled
}

// Read extracts the therapeutic intention of a snapshot.
func Read(p patient.Snapshot) Intention {
	set := drugs.NewSet(p.Drugs)
	in := Intention{
		Etiology: readEtiology(p),
		Control:  readControl(p),
		Drugs:    set,
	}
	for i := range in.Given {
		in.Given[i] = set.LineGiven(i + 1)
	}
	return in
}

// Points is the etiological contribution.
func (in Intention) Points() float64 {
	return etiologyPoints[in.Etiology]
}

func (in Intention) layer() score.Layer {
	signals := map[string]string{
		"etiology": string(in.Etiology),
		"control":  string(in.Control),
	}
	for i, g := range in.Given {
		signals["givenL"+strconv.Itoa(i+1)] = strconv.FormatBool(g)
	}
	return score.Layer{Signals: signals, Partial: in.Points()}
}
