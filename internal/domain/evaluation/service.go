// Package evaluation exposes the scoring pipeline, the scenario catalogue
// and the crash-test battery over HTTP and CDS Hooks.
package evaluation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neuroped/cds/internal/domain/crashtest"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/pipeline"
	"github.com/neuroped/cds/internal/domain/scenario"
)

// Observer receives shell-level events for metrics.
type Observer interface {
	ObserveCrashTest(passed, total int)
	ObserveFeedback(service, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveCrashTest(int, int)      {}
func (nopObserver) ObserveFeedback(string, string) {}

// Service evaluates patients. It holds no per-request state, so one value
// serves all requests.
type Service struct {
	pipeline *pipeline.Pipeline
	runner   *crashtest.Runner
	observer Observer
	logger   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) { s.pipeline = p }
}

func WithRunner(r *crashtest.Runner) Option {
	return func(s *Service) { s.runner = r }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(opts ...Option) *Service {
	s := &Service{observer: nopObserver{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(pipeline.WithLogger(s.logger))
	}
	if s.runner == nil {
		s.runner = crashtest.NewRunner(crashtest.WithPipeline(s.pipeline), crashtest.WithLogger(s.logger))
	}
	return s
}

// Evaluate validates in and runs the full pipeline on a fresh record.
// Validation failures wrap *patient.ValidationError.
func (s *Service) Evaluate(ctx context.Context, in patient.Input) (*patient.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := patient.New(in)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return s.pipeline.Run(rec), nil
}

// EvaluateScenario runs a catalogue fixture.
func (s *Service) EvaluateScenario(ctx context.Context, key string) (scenario.Scenario, *patient.Record, error) {
	sc, err := scenario.Get(key)
	if err != nil {
		return scenario.Scenario{}, nil, err
	}
	rec, err := s.Evaluate(ctx, sc.Input)
	if err != nil {
		return sc, nil, fmt.Errorf("scenario %s: %w", sc.Key, err)
	}
	return sc, rec, nil
}

// CrashTest runs the default regression battery.
func (s *Service) CrashTest(ctx context.Context) crashtest.Report {
	rep := s.runner.Run(ctx, crashtest.DefaultSuite())
	s.observer.ObserveCrashTest(rep.Passed, rep.Total)
	return rep
}
