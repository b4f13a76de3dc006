// Package ewe implements the Early Warning Engine: a PEWS-style bedside
// score with a heavily weighted consciousness trend, meant to flag
// deterioration before the prognostic score moves.
package ewe

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

type view struct {
	p    patient.Snapshot
	pews PEWS
}

var rules = []engine.Rule[view]{
	{
		ID:       "ewe-red-flag",
		Citation: "Monaghan, Paediatr Nurs 2005 (PEWS)",
		Guard:    func(v view) bool { return v.pews.Max() == 3 },
		Delta:    5,
		Alert:    engine.Warning("PEWS red flag", "One physiological parameter is at its maximum sub-score."),
	},
	{
		ID:       "ewe-aggregate",
		Citation: "Parshuram et al., JAMA 2018 (EPOCH)",
		Guard:    func(v view) bool { return v.pews.Total() >= 7 },
		Delta:    10,
		Alert:    engine.Critical("PEWS 7 or more", "Aggregate early warning score requires immediate senior review."),
		Recommendation: engine.Urgent("Call the rapid response team",
			"PEWS of 7 or more predicts unplanned PICU transfer."),
	},
}

// Engine computes the early warning score.
type Engine struct{}

// New returns the EWE engine.
func New() *Engine { return &Engine{} }

// ID implements engine.Engine.
func (*Engine) ID() score.EngineID { return score.EngineEWE }

// Run implements engine.Engine.
func (e *Engine) Run(p patient.Snapshot, prior score.Prior) (score.Result, error) {
	vps, err := engine.Require(prior, score.EngineVPS)
	if err != nil {
		return score.Result{}, err
	}
	pews := Score(p)
	intention := pews.layer()
	context := contextLayer(p, vps.Synthesis, intention.Partial)
	out := engine.Evaluate(score.EngineEWE, rules, view{p: p, pews: pews})
	curve, curveAlerts := curveLayer(engine.AnalyzeGCS(p), vps.Synthesis.Level)

	alerts := append(out.Alerts, curveAlerts...)
	return engine.Assemble(score.EngineEWE, intention, context, out.Layer, curve, alerts, out.Recommendations), nil
}

func contextLayer(p patient.Snapshot, vps score.Synthesis, points float64) score.Layer {
	band := engine.BandForAge(p.AgeMonths)
	var partial float64
	switch band {
	case engine.AgeInfant:
		partial += points * 0.15
	case engine.AgeToddler:
		partial += points * 0.05
	}
	if p.HospDay <= 2 {
		partial += 2
	}
	switch vps.Level {
	case score.LevelCritical:
		partial += 5
	case score.LevelSevere:
		partial += 3
	}
	return score.Layer{
		Signals: map[string]string{
			"ageBand":  string(band),
			"vpsLevel": string(vps.Level),
			"hospDay":  strconv.Itoa(p.HospDay),
		},
		Partial: partial,
	}
}

func curveLayer(t engine.Trend, vps score.Level) (score.Layer, []score.Alert) {
	l := score.Layer{Signals: t.Signals()}
	const citation = "GCS trend over the last 6 points"

	if t.Direction == engine.Improving {
		l.Partial = -5
		l.Fired = []score.FiredRule{{ID: "ewe-curve-improving", Citation: citation, Contribution: -5}}
		return l, nil
	}
	if t.Direction == engine.Worsening {
		delta := float64(8 * t.Magnitude)
		if delta > 40 {
			delta = 40
		}
		l.Partial += delta
		l.Fired = append(l.Fired, score.FiredRule{ID: "ewe-curve-worsening", Citation: citation, Contribution: delta})
	}
	if t.Drop() >= 2 {
		l.Partial += 10
		l.Fired = append(l.Fired, score.FiredRule{ID: "ewe-curve-drop", Citation: citation, Contribution: 10})
	}
	if len(l.Fired) == 0 {
		return l, nil
	}
	l.Flag = true

	a := score.Alert{
		Title:    "Neurological deterioration",
		Body:     "GCS is falling over the recent series.",
		Severity: score.SeverityWarning,
		Source:   score.EngineEWE,
		Rule:     l.Fired[0].ID,
	}
	if t.Magnitude >= 4 || t.Drop() >= 3 {
		a.Severity = score.SeverityCritical
	}
	if vps.Rank() <= score.LevelModerate.Rank() {
		a.Body = "GCS is falling while the prognostic score is still " + string(vps) +
			": deterioration precedes VPS escalation."
	}
	return l, []score.Alert{a}
}
