// Package engine holds what the five scoring engines share: the Engine
// contract, rule tables, pediatric age norms and consciousness trend
// analysis. Each engine lives in its own subpackage and composes four
// layers (intention, context, rules, curve) into a score.Result.
package engine

import (
	"errors"
	"fmt"

	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Engine evaluates one clinical sub-domain. Run must be a total function of
// its arguments: no hidden state, randomness or clock.
type Engine interface {
	ID() score.EngineID
	Run(p patient.Snapshot, prior score.Prior) (score.Result, error)
}

// ErrMissingPrior is returned when an engine runs before one it depends on.
var ErrMissingPrior = errors.New("required prior result missing")

// Require fetches a prior result the calling engine depends on.
func Require(prior score.Prior, id score.EngineID) (score.Result, error) {
	res, ok := prior.Get(id)
	if !ok {
		return score.Result{}, fmt.Errorf("%w: %s", ErrMissingPrior, id)
	}
	return res, nil
}

// Assemble builds a result from the four layers. The raw total is the sum
// of every layer's partial, clamped and banded.
func Assemble(id score.EngineID, intention, context, rules, curve score.Layer, alerts []score.Alert, recs []score.Recommendation) score.Result {
	intention.Name = score.LayerIntention
	context.Name = score.LayerContext
	rules.Name = score.LayerRules
	curve.Name = score.LayerCurve

	raw := intention.Partial + context.Partial + rules.Partial + curve.Partial
	if alerts == nil {
		alerts = []score.Alert{}
	}
	if recs == nil {
		recs = []score.Recommendation{}
	}
	return score.Result{
		Engine:          id,
		Intention:       intention,
		Context:         context,
		Rules:           rules,
		Curve:           curve,
		Synthesis:       score.NewSynthesis(raw),
		Alerts:          alerts,
		Recommendations: recs,
	}
}
