// Package tde implements the Therapeutic Decision Engine. It reads the VPS
// result and selects one line of a four-line escalation tree.
package tde

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// SignalLine is the rules-layer signal carrying the selected line ("L1".."L4").
const SignalLine = "line"

// Engine selects the therapeutic line.
type Engine struct{}

// New returns the TDE engine.
func New() *Engine { return &Engine{} }

// ID implements engine.Engine.
func (*Engine) ID() score.EngineID { return score.EngineTDE }

// Run implements engine.Engine.
func (e *Engine) Run(p patient.Snapshot, prior score.Prior) (score.Result, error) {
	vps, err := engine.Require(prior, score.EngineVPS)
	if err != nil {
		return score.Result{}, err
	}
	in := Read(p)
	v := view{p: p, in: in, vps: vps.Synthesis.Level}

	intention := in.layer()
	context := contextLayer(p, vps.Synthesis, in.Points())

	line, out := selectLine(v)
	out.Layer.Signals = map[string]string{SignalLine: "L" + strconv.Itoa(line)}
	out.Merge(engine.Evaluate(score.EngineTDE, rules, v))

	curve, curveRecs := curveLayer(engine.AnalyzeGCS(p))
	recs := append(out.Recommendations, curveRecs...)
	return engine.Assemble(score.EngineTDE, intention, context, out.Layer, curve, out.Alerts, recs), nil
}

func contextLayer(p patient.Snapshot, vps score.Synthesis, points float64) score.Layer {
	band := engine.BandForAge(p.AgeMonths)
	var partial float64
	if band == engine.AgeInfant {
		partial += points * 0.1
	}
	switch vps.Level {
	case score.LevelCritical:
		partial += 10
	case score.LevelSevere:
		partial += 5
	}
	if p.HospDay >= 14 {
		partial += 5
	}
	return score.Layer{
		Signals: map[string]string{
			"ageBand":  string(band),
			"vpsLevel": string(vps.Level),
			"vpsScore": strconv.Itoa(vps.Score),
			"hospDay":  strconv.Itoa(p.HospDay),
		},
		Partial: partial,
		Flag:    vps.Level.Rank() >= score.LevelSevere.Rank(),
	}
}

func curveLayer(t engine.Trend) (score.Layer, []score.Recommendation) {
	l := score.Layer{Signals: t.Signals()}
	if t.Direction != engine.Worsening {
		return l, nil
	}
	delta := float64(2 * t.Magnitude)
	if delta > 10 {
		delta = 10
	}
	l.Partial = delta
	l.Flag = true
	l.Fired = []score.FiredRule{{ID: "tde-curve-worsening", Citation: "GCS trend over the last 6 points", Contribution: delta}}
	return l, []score.Recommendation{{
		Title:     "Reassess therapeutic line within 24h",
		Rationale: "Consciousness is declining under the current line.",
		Priority:  score.PriorityUrgent,
		Source:    score.EngineTDE,
		Rule:      "tde-curve-worsening",
	}}
}
