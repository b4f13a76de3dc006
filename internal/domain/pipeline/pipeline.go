// Package pipeline runs the five engines over a patient record in their
// fixed order, feeding each one the results of those before it.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/engine/ewe"
	"github.com/neuroped/cds/internal/domain/engine/pve"
	"github.com/neuroped/cds/internal/domain/engine/tde"
	"github.com/neuroped/cds/internal/domain/engine/tpe"
	"github.com/neuroped/cds/internal/domain/engine/vps"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Recorder observes engine executions. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveEngine(id score.EngineID, res score.Result, elapsed time.Duration)
	ObserveRun(rec *patient.Record, elapsed time.Duration)
}

// Pipeline is immutable after construction and safe to share between
// goroutines running distinct records.
type Pipeline struct {
	engines  []engine.Engine
	logger   zerolog.Logger
	recorder Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for engine runs and fallbacks.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithEngines replaces the engine set. Engines still run in the given
// order; it exists so tests can inject failing engines.
func WithEngines(engines ...engine.Engine) Option {
	return func(p *Pipeline) { p.engines = engines }
}

// Engines returns the production engine set in execution order.
func Engines() []engine.Engine {
	return []engine.Engine{vps.New(), tde.New(), pve.New(), ewe.New(), tpe.New()}
}

// New builds a pipeline over the production engines.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{engines: Engines(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPipeline = New()

// Run evaluates rec with the default pipeline.
func Run(rec *patient.Record) *patient.Record {
	return defaultPipeline.Run(rec)
}

// Run clears any previous outputs of rec, runs every engine and stores its
// result. A failing engine is replaced by a neutral sentinel result and the
// remaining engines still run. Run always returns rec.
func (p *Pipeline) Run(rec *patient.Record) *patient.Record {
	start := time.Now()
	rec.Reset()

	for _, e := range p.engines {
		t0 := time.Now()
		res, err := p.runEngine(e, rec.Snapshot(), rec.Prior())
		if err != nil {
			p.logger.Error().Err(err).Str("engine", string(e.ID())).Msg("engine failed, storing sentinel")
			res = score.Sentinel(e.ID(), err)
		}
		if err := rec.Store(res); err != nil {
			// A duplicate id in the engine set; keep the first result.
			p.logger.Error().Err(err).Str("engine", string(e.ID())).Msg("result not stored")
			continue
		}
		elapsed := time.Since(t0)
		p.logger.Debug().
			Str("engine", string(e.ID())).
			Int("score", res.Synthesis.Score).
			Str("level", string(res.Synthesis.Level)).
			Int("alerts", len(res.Alerts)).
			Dur("elapsed", elapsed).
			Msg("engine evaluated")
		if p.recorder != nil {
			p.recorder.ObserveEngine(e.ID(), res, elapsed)
		}
	}

	if p.recorder != nil {
		p.recorder.ObserveRun(rec, time.Since(start))
	}
	return rec
}

// runEngine converts panics into errors so one engine cannot abort the run.
func (p *Pipeline) runEngine(e engine.Engine, snap patient.Snapshot, prior score.Prior) (res score.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine %s panicked: %v", e.ID(), r)
		}
	}()
	res, err = e.Run(snap, prior)
	if err != nil {
		return score.Result{}, fmt.Errorf("engine %s: %w", e.ID(), err)
	}
	if res.Engine != e.ID() {
		return score.Result{}, fmt.Errorf("engine %s returned result for %q", e.ID(), res.Engine)
	}
	return res, nil
}
