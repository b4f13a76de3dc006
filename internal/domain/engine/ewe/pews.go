package ewe

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// PointsPerLevel converts PEWS points into score points.
const PointsPerLevel = 5

// PEWS holds the four component sub-scores, each 0 to 3.
type PEWS struct {
	Neuro       int
	Cardio      int
	Respiratory int
	Temperature int
}

// Total is the aggregate PEWS, 0 to 12.
func (s PEWS) Total() int {
	return s.Neuro + s.Cardio + s.Respiratory + s.Temperature
}

// Max is the highest single component.
func (s PEWS) Max() int {
	return max(s.Neuro, s.Cardio, s.Respiratory, s.Temperature)
}

func neuro(p patient.Snapshot) int {
	switch {
	case p.Pupils == patient.PupilsFixedBoth, p.Pupils == patient.PupilsFixedOne, p.GCS <= 8:
		return 3
	case p.GCS <= 12:
		return 2
	case p.GCS <= 14:
		return 1
	}
	return 0
}

func cardio(p patient.Snapshot, n engine.Norms) int {
	switch {
	case p.SBP < n.SBPMin:
		return 3
	case p.HeartRate > n.HRMax+20, p.Lactate >= 2:
		return 2
	case p.HeartRate > n.HRMax:
		return 1
	}
	return 0
}

func respiratory(p patient.Snapshot, n engine.Norms) int {
	switch {
	case p.SpO2 < 90:
		return 3
	case p.SpO2 < 92, p.RespRate > n.RRMax+10:
		return 2
	case p.SpO2 < 95, p.RespRate > n.RRMax:
		return 1
	}
	return 0
}

func temperature(t float64) int {
	switch {
	case t >= 40, t < 34:
		return 3
	case t >= 39, t < 35:
		return 2
	case t >= 38, t < 36:
		return 1
	}
	return 0
}

// Score computes the PEWS components of a snapshot against age norms.
func Score(p patient.Snapshot) PEWS {
	n := engine.NormsFor(p.AgeMonths)
	return PEWS{
		Neuro:       neuro(p),
		Cardio:      cardio(p, n),
		Respiratory: respiratory(p, n),
		Temperature: temperature(p.Temp),
	}
}

func (s PEWS) layer() score.Layer {
	return score.Layer{
		Signals: map[string]string{
			"neuro":       strconv.Itoa(s.Neuro),
			"cardio":      strconv.Itoa(s.Cardio),
			"respiratory": strconv.Itoa(s.Respiratory),
			"temperature": strconv.Itoa(s.Temperature),
			"pews":        strconv.Itoa(s.Total()),
		},
		Partial: float64(PointsPerLevel * s.Total()),
	}
}
