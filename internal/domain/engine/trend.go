package engine

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/patient"
)

// TrendWindow is the number of most recent consciousness points analysed.
const TrendWindow = 6

// Direction of a consciousness trend.
type Direction string

const (
	Improving Direction = "improving"
	Flat      Direction = "stable"
	Worsening Direction = "worsening"
)

// Trend summarises the consciousness series over the window.
type Trend struct {
	Direction Direction
	// Delta is last minus first point; negative means GCS is falling.
	Delta int
	// LastStep is last minus previous point.
	LastStep  int
	Magnitude int
	Points    int
}

// Drop is how many GCS points were lost on the last step, zero if none.
func (t Trend) Drop() int {
	if t.LastStep < 0 {
		return -t.LastStep
	}
	return 0
}

// Signals renders the trend for a curve layer.
func (t Trend) Signals() map[string]string {
	return map[string]string{
		"direction": string(t.Direction),
		"delta":     strconv.Itoa(t.Delta),
		"lastStep":  strconv.Itoa(t.LastStep),
		"points":    strconv.Itoa(t.Points),
	}
}

// Series is the chronological consciousness series: the recorded history
// followed by the current GCS.
func Series(p patient.Snapshot) []int {
	s := make([]int, 0, len(p.GCSHistory)+1)
	s = append(s, p.GCSHistory...)
	return append(s, p.GCS)
}

// AnalyzeGCS computes the consciousness trend of a snapshot.
func AnalyzeGCS(p patient.Snapshot) Trend {
	return Analyze(Series(p))
}

// Analyze computes direction and magnitude over the last TrendWindow points.
// A change of two GCS points or more is a trend; less is stable.
func Analyze(series []int) Trend {
	if len(series) > TrendWindow {
		series = series[len(series)-TrendWindow:]
	}
	t := Trend{Direction: Flat, Points: len(series)}
	if len(series) < 2 {
		return t
	}
	last := series[len(series)-1]
	t.Delta = last - series[0]
	t.LastStep = last - series[len(series)-2]
	t.Magnitude = t.Delta
	if t.Magnitude < 0 {
		t.Magnitude = -t.Magnitude
	}
	switch {
	case t.Delta <= -2:
		t.Direction = Worsening
	case t.Delta >= 2:
		t.Direction = Improving
	}
	return t
}
