package pve

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/engine/drugs"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Load grades the number of concurrent agents.
type Load string

const (
	LoadNone  Load = "none"
	LoadMono  Load = "mono"
	LoadDual  Load = "dual"
	LoadPoly  Load = "poly"
	LoadHeavy Load = "heavy"
)

// Immunosuppression grades the immunosuppressive burden.
type Immunosuppression string

const (
	ImmunoNone     Immunosuppression = "none"
	ImmunoSteroid  Immunosuppression = "steroid"
	ImmunoBiologic Immunosuppression = "biologic"
	ImmunoCombined Immunosuppression = "combined"
)

// Vulnerability marks patients less able to tolerate toxicity.
type Vulnerability string

const (
	VulnerabilityStandard Vulnerability = "standard"
	VulnerabilityFragile  Vulnerability = "fragile"
)

// Intention is the pharmacological reading of a snapshot.
type Intention struct {
	Load              Load
	Immunosuppression Immunosuppression
	Vulnerability     Vulnerability
	Drugs             drugs.Set
}

var (
	loadPoints = map[Load]float64{
		LoadNone: 0, LoadMono: 2, LoadDual: 5, LoadPoly: 10, LoadHeavy: 18,
	}
	immunoPoints = map[Immunosuppression]float64{
		ImmunoNone: 0, ImmunoSteroid: 3, ImmunoBiologic: 8, ImmunoCombined: 10,
	}
	vulnerabilityPoints = map[Vulnerability]float64{
		VulnerabilityStandard: 0, VulnerabilityFragile: 5,
	}
)

func readLoad(n int) Load {
	switch {
	case n == 0:
		return LoadNone
	case n == 1:
		return LoadMono
	case n == 2:
		return LoadDual
	case n <= 4:
		return LoadPoly
	}
	return LoadHeavy
}

func readImmunosuppression(set drugs.Set) Immunosuppression {
	steroids := set.Count(func(p drugs.Profile) bool { return p.Class == drugs.ClassCorticosteroid })
	biologics := set.Count(func(p drugs.Profile) bool {
		return p.Class == drugs.ClassImmunosuppressant || p.Class == drugs.ClassCytokineBlocker
	})
	switch {
	case biologics >= 2, biologics >= 1 && steroids >= 1:
		return ImmunoCombined
	case biologics == 1:
		return ImmunoBiologic
	case steroids >= 1:
		return ImmunoSteroid
	}
	return ImmunoNone
}

func readVulnerability(p patient.Snapshot) Vulnerability {
	if p.Platelets < engine.Thrombocytopenia || p.Lactate >= engine.HighLactate ||
		engine.BandForAge(p.AgeMonths) == engine.AgeInfant {
		return VulnerabilityFragile
	}
	return VulnerabilityStandard
}

// Read extracts the pharmacological intention of a snapshot.
func Read(p patient.Snapshot) Intention {
	set := drugs.NewSet(p.Drugs)
	return Intention{
		Load:              readLoad(set.Len()),
		Immunosuppression: readImmunosuppression(set),
		Vulnerability:     readVulnerability(p),
		Drugs:             set,
	}
}

// Points is the intention contribution before context modifiers.
func (in Intention) Points() float64 {
	return loadPoints[in.Load] + immunoPoints[in.Immunosuppression] + vulnerabilityPoints[in.Vulnerability]
}

func (in Intention) layer() score.Layer {
	return score.Layer{
		Signals: map[string]string{
			"load":              string(in.Load),
			"agents":            strconv.Itoa(in.Drugs.Len()),
			"immunosuppression": string(in.Immunosuppression),
			"vulnerability":     string(in.Vulnerability),
		},
		Partial: in.Points(),
	}
}
