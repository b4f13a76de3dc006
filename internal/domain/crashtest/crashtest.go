// Package crashtest runs the clinical regression battery: every scenario
// is evaluated through the full pipeline and checked against its expected
// outcome.
package crashtest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/pipeline"
	"github.com/neuroped/cds/internal/domain/scenario"
)

// Case binds a scenario to its expectations.
type Case struct {
	Scenario string
	Checks   []Check
}

// Suite is an ordered list of cases.
type Suite []Case

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

// CaseResult is the outcome of one scenario.
type CaseResult struct {
	Scenario string        `json:"scenario"`
	Label    string        `json:"label"`
	Passed   bool          `json:"passed"`
	Error    string        `json:"error,omitempty"`
	Checks   []CheckResult `json:"checks"`
}

// Failures lists the failed checks.
func (c CaseResult) Failures() []CheckResult {
	var out []CheckResult
	for _, r := range c.Checks {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Report is the battery outcome in suite order.
type Report struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Total  int          `json:"total"`
}

// Summary renders "passed/total".
func (r Report) Summary() string {
	return fmt.Sprintf("%d/%d", r.Passed, r.Total)
}

// Healthy is true only when every scenario passed.
func (r Report) Healthy() bool {
	return r.Total > 0 && r.Passed == r.Total
}

// Runner evaluates suites.
type Runner struct {
	pipeline    *pipeline.Pipeline
	logger      zerolog.Logger
	parallelism int
}

// Option configures a Runner.
type Option func(*Runner)

// WithPipeline sets the pipeline under test.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(r *Runner) { r.pipeline = p }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithParallelism bounds concurrent scenario evaluations. Values below one
// run the suite sequentially.
func WithParallelism(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.parallelism = n
	}
}

// NewRunner returns a runner over the production pipeline.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{pipeline: pipeline.New(), logger: zerolog.Nop(), parallelism: 4}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates suite with a default runner.
func Run(ctx context.Context, suite Suite) Report {
	return NewRunner().Run(ctx, suite)
}

// Run evaluates every case on its own record. Cases run concurrently;
// the report keeps suite order. A cancelled context fails the cases that
// had not started.
func (r *Runner) Run(ctx context.Context, suite Suite) Report {
	results := make([]CaseResult, len(suite))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, c := range suite {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = CaseResult{Scenario: c.Scenario, Error: err.Error(), Checks: []CheckResult{}}
				return nil
			}
			results[i] = r.runCase(c)
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Cases: results, Total: len(results)}
	for _, c := range results {
		if c.Passed {
			rep.Passed++
		} else {
			r.logger.Warn().Str("scenario", c.Scenario).Str("error", c.Error).
				Int("failedChecks", len(c.Failures())).Msg("crash test scenario failed")
		}
	}
	r.logger.Info().Str("result", rep.Summary()).Bool("healthy", rep.Healthy()).Msg("crash test finished")
	return rep
}

func (r *Runner) runCase(c Case) CaseResult {
	out := CaseResult{Scenario: c.Scenario, Checks: make([]CheckResult, 0, len(c.Checks))}
	sc, err := scenario.Get(c.Scenario)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Label = sc.Label

	rec, err := patient.New(sc.Input)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	r.pipeline.Run(rec)

	out.Passed = true
	for _, chk := range c.Checks {
		actual, ok := chk.Eval(rec)
		out.Checks = append(out.Checks, CheckResult{Name: chk.Name, Expected: chk.Expected, Actual: actual, Passed: ok})
		out.Passed = out.Passed && ok
	}
	return out
}
