// Package pve implements the Pharmacovigilance Engine. It flags drug
// interactions and immunosuppression hazards; critical contraindications
// always raise a critical alert whatever the final score.
package pve

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Engine runs the pharmacovigilance checks.
type Engine struct{}

// New returns the PVE engine.
func New() *Engine { return &Engine{} }

// ID implements engine.Engine.
func (*Engine) ID() score.EngineID { return score.EnginePVE }

// Run implements engine.Engine.
func (e *Engine) Run(p patient.Snapshot, prior score.Prior) (score.Result, error) {
	vps, err := engine.Require(prior, score.EngineVPS)
	if err != nil {
		return score.Result{}, err
	}
	in := Read(p)
	v := view{p: p, in: in}

	intention := in.layer()
	context := contextLayer(p, vps.Synthesis, in.Points())

	out := engine.Evaluate(score.EnginePVE, cocktail, v)
	out.Merge(engine.Evaluate(score.EnginePVE, immunity, v))

	curve, curveAlerts := curveLayer(engine.AnalyzeGCS(p), v.count(cnsDepressant))
	alerts := append(out.Alerts, curveAlerts...)
	return engine.Assemble(score.EnginePVE, intention, context, out.Layer, curve, alerts, out.Recommendations), nil
}

func contextLayer(p patient.Snapshot, vps score.Synthesis, points float64) score.Layer {
	band := engine.BandForAge(p.AgeMonths)
	var partial float64
	if band == engine.AgeInfant {
		partial += points * 0.2
	}
	if p.HospDay >= 14 {
		partial += 3
	}
	if vps.Level == score.LevelCritical {
		partial += 5
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

func curveLayer(t engine.Trend, depressants int) (score.Layer, []score.Alert) {
	l := score.Layer{Signals: t.Signals()}
	l.Signals["cnsDepressants"] = strconv.Itoa(depressants)
	if t.Direction != engine.Worsening || depressants < 2 {
		return l, nil
	}
	l.Partial = 5
	l.Flag = true
	l.Fired = []score.FiredRule{{ID: "pve-curve-encephalopathy", Citation: "GCS trend under sedating agents", Contribution: 5}}
	return l, []score.Alert{{
		Title:    "Possible drug-induced encephalopathy",
		Body:     "Consciousness is declining while two or more CNS depressants are given.",
		Severity: score.SeverityWarning,
		Source:   score.EnginePVE,
		Rule:     "pve-curve-encephalopathy",
	}}
}
