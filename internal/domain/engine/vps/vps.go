// Package vps implements the Vital Prognosis Score, the first engine of the
// pipeline. It reads no prior result.
package vps

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Engine computes the vital prognosis.
type Engine struct{}

// New returns the VPS engine.
func New() *Engine { return &Engine{} }

// ID implements engine.Engine.
func (*Engine) ID() score.EngineID { return score.EngineVPS }

// Run implements engine.Engine.
func (e *Engine) Run(p patient.Snapshot, _ score.Prior) (score.Result, error) {
	in := Read(p)
	intention := in.layer()
	context := contextLayer(p, in.Points())
	out := engine.Evaluate(score.EngineVPS, rules, view{p: p, in: in})
	curve, curveAlerts := curveLayer(engine.AnalyzeGCS(p))

	alerts := append(out.Alerts, curveAlerts...)
	return engine.Assemble(score.EngineVPS, intention, context, out.Layer, curve, alerts, out.Recommendations), nil
}

func ageFactor(band engine.AgeBand) float64 {
	switch band {
	case engine.AgeInfant:
		return 1.15
	case engine.AgeToddler:
		return 1.05
	}
	return 1
}

func contextLayer(p patient.Snapshot, points float64) score.Layer {
	band := engine.BandForAge(p.AgeMonths)
	factor := ageFactor(band)
	partial := points * (factor - 1)
	switch {
	case p.HospDay >= 14:
		partial += 5
	case p.HospDay >= 7:
		partial += 3
	}
	return score.Layer{
		Signals: map[string]string{
			"ageBand":   string(band),
			"ageFactor": strconv.FormatFloat(factor, 'f', -1, 64),
			"hospDay":   strconv.Itoa(p.HospDay),
		},
		Partial: partial,
		Flag:    factor > 1,
	}
}

func curveLayer(t engine.Trend) (score.Layer, []score.Alert) {
	l := score.Layer{Signals: t.Signals()}
	switch t.Direction {
	case engine.Worsening:
		delta := float64(2 * t.Magnitude)
		if delta > 10 {
			delta = 10
		}
		l.Partial = delta
		l.Flag = true
		l.Fired = []score.FiredRule{{ID: "vps-curve-worsening", Citation: "GCS trend over the last 6 points", Contribution: delta}}
		return l, []score.Alert{{
			Title:    "Early neurological deterioration",
			Body:     "GCS fell by " + strconv.Itoa(t.Magnitude) + " points over the recent series.",
			Severity: score.SeverityWarning,
			Source:   score.EngineVPS,
			Rule:     "vps-curve-worsening",
		}}
	case engine.Improving:
		l.Partial = -3
		l.Fired = []score.FiredRule{{ID: "vps-curve-improving", Citation: "GCS trend over the last 6 points", Contribution: -3}}
	}
	return l, nil
}
