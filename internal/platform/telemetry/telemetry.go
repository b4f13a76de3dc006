// Package telemetry exposes Prometheus metrics for the HTTP surface, the
// scoring pipeline, the crash-test battery and CDS Hooks feedback.
package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

const namespace = "cds"

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// TelemetryConfig holds all configuration for the telemetry provider.
type TelemetryConfig struct {
	ServiceName    string `json:"service_name"`
	ServiceVersion string `json:"service_version"`
	Environment    string `json:"environment"`
	MetricsEnabled *bool  `json:"metrics_enabled"` // nil = use default (true)
	// ProcessMetrics registers the Go runtime and process collectors.
	ProcessMetrics bool `json:"process_metrics"`
}

// metricsOn returns whether metrics are enabled (defaults to true).
func (c *TelemetryConfig) metricsOn() bool {
	if c.MetricsEnabled == nil {
		return true
	}
	return *c.MetricsEnabled
}

func (c *TelemetryConfig) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "cds-server"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// BoolPtr is a helper to create a *bool for TelemetryConfig fields.
func BoolPtr(b bool) *bool {
	return &b
}

// ---------------------------------------------------------------------------
// TelemetryProvider
// ---------------------------------------------------------------------------

// defaultDurationBuckets are the histogram bucket boundaries (in seconds)
// used for HTTP request duration.
var defaultDurationBuckets = []float64{
	0.005, 0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0,
}

// engineDurationBuckets cover single engine executions, which are
// sub-millisecond in the normal case.
var engineDurationBuckets = prometheus.ExponentialBuckets(0.00001, 4, 8)

// TelemetryProvider owns a private registry and every collector the
// service exports. It satisfies pipeline.Recorder.
type TelemetryProvider struct {
	cfg      TelemetryConfig
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpActive   prometheus.Gauge

	engineRuns     *prometheus.CounterVec
	engineDuration *prometheus.HistogramVec
	engineScore    *prometheus.HistogramVec
	alerts         *prometheus.CounterVec

	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram

	crashRuns   *prometheus.CounterVec
	crashPassed prometheus.Gauge
	crashTotal  prometheus.Gauge

	feedback *prometheus.CounterVec
}

// NewTelemetryProvider creates the provider and registers its collectors.
func NewTelemetryProvider(cfg TelemetryConfig) *TelemetryProvider {
	cfg.applyDefaults()

	reg := prometheus.NewRegistry()
	tp := &TelemetryProvider{
		cfg:      cfg,
		registry: reg,

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: defaultDurationBuckets,
		}, []string{"method", "route", "status"}),
		httpActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "active_requests",
			Help: "HTTP requests currently in flight.",
		}),

		engineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "runs_total",
			Help: "Engine executions, by engine, level and degraded flag.",
		}, []string{"engine", "level", "degraded"}),
		engineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "engine", Name: "duration_seconds",
			Help:    "Engine execution latency.",
			Buckets: engineDurationBuckets,
		}, []string{"engine"}),
		engineScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "engine", Name: "score",
			Help:    "Distribution of synthesized engine scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}, []string{"engine"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "alerts_total",
			Help: "Alerts raised, by source engine and severity.",
		}, []string{"engine", "severity"}),

		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "runs_total",
			Help: "Completed pipeline runs, by emergency flag.",
		}, []string{"emergency"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "duration_seconds",
			Help:    "Full pipeline latency.",
			Buckets: engineDurationBuckets,
		}),

		crashRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "crashtest", Name: "runs_total",
			Help: "Crash-test battery runs, by outcome.",
		}, []string{"healthy"}),
		crashPassed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "crashtest", Name: "passed",
			Help: "Scenarios passed in the last crash-test run.",
		}),
		crashTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "crashtest", Name: "total",
			Help: "Scenarios evaluated in the last crash-test run.",
		}),

		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cdshooks", Name: "feedback_total",
			Help: "CDS Hooks card feedback, by service and outcome.",
		}, []string{"service", "outcome"}),
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "build_info",
		Help: "Static service metadata.",
		ConstLabels: prometheus.Labels{
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
			"env":     cfg.Environment,
		},
	})
	info.Set(1)

	reg.MustRegister(
		info,
		tp.httpRequests, tp.httpDuration, tp.httpActive,
		tp.engineRuns, tp.engineDuration, tp.engineScore, tp.alerts,
		tp.pipelineRuns, tp.pipelineDuration,
		tp.crashRuns, tp.crashPassed, tp.crashTotal,
		tp.feedback,
	)
	if cfg.ProcessMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return tp
}

// Registry exposes the underlying registry, mainly for tests.
func (tp *TelemetryProvider) Registry() *prometheus.Registry {
	return tp.registry
}

// Enabled reports whether metrics are being recorded.
func (tp *TelemetryProvider) Enabled() bool {
	return tp.cfg.metricsOn()
}

// ---------------------------------------------------------------------------
// Domain recorders
// ---------------------------------------------------------------------------

// ObserveEngine records one engine execution.
func (tp *TelemetryProvider) ObserveEngine(id score.EngineID, res score.Result, elapsed time.Duration) {
	if !tp.cfg.metricsOn() {
		return
	}
	engine := string(id)
	tp.engineRuns.WithLabelValues(engine, string(res.Synthesis.Level), strconv.FormatBool(res.Degraded)).Inc()
	tp.engineDuration.WithLabelValues(engine).Observe(elapsed.Seconds())
	tp.engineScore.WithLabelValues(engine).Observe(float64(res.Synthesis.Score))
	for _, a := range res.Alerts {
		tp.alerts.WithLabelValues(engine, string(a.Severity)).Inc()
	}
}

// ObserveRun records one completed pipeline run.
func (tp *TelemetryProvider) ObserveRun(rec *patient.Record, elapsed time.Duration) {
	if !tp.cfg.metricsOn() {
		return
	}
	tp.pipelineRuns.WithLabelValues(strconv.FormatBool(rec.IsEmergency())).Inc()
	tp.pipelineDuration.Observe(elapsed.Seconds())
}

// ObserveCrashTest records the outcome of a battery run.
func (tp *TelemetryProvider) ObserveCrashTest(passed, total int) {
	if !tp.cfg.metricsOn() {
		return
	}
	healthy := total > 0 && passed == total
	tp.crashRuns.WithLabelValues(strconv.FormatBool(healthy)).Inc()
	tp.crashPassed.Set(float64(passed))
	tp.crashTotal.Set(float64(total))
}

// ObserveFeedback records one CDS Hooks feedback item.
func (tp *TelemetryProvider) ObserveFeedback(service, outcome string) {
	if !tp.cfg.metricsOn() {
		return
	}
	tp.feedback.WithLabelValues(service, outcome).Inc()
}

// ---------------------------------------------------------------------------
// MetricsMiddleware
// ---------------------------------------------------------------------------

// MetricsMiddleware returns an Echo middleware that records HTTP server metrics.
func (tp *TelemetryProvider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !tp.cfg.metricsOn() {
				return next(c)
			}

			tp.httpActive.Inc()
			defer tp.httpActive.Dec()

			start := time.Now()
			err := next(c)
			if err != nil {
				// Write the error now so the recorded status is final.
				c.Error(err)
			}

			// Route pattern keeps label cardinality bounded.
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			tp.httpRequests.WithLabelValues(method, route, status).Inc()
			tp.httpDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ---------------------------------------------------------------------------
// PrometheusHandler
// ---------------------------------------------------------------------------

// PrometheusHandler returns an Echo handler that serves metrics in Prometheus
// text exposition format at /metrics.
func (tp *TelemetryProvider) PrometheusHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(tp.registry, promhttp.HandlerOpts{
		Registry: tp.registry,
	}))
}
