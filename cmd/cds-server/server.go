package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/neuroped/cds/internal/config"
	"github.com/neuroped/cds/internal/domain/crashtest"
	"github.com/neuroped/cds/internal/domain/evaluation"
	"github.com/neuroped/cds/internal/domain/pipeline"
	"github.com/neuroped/cds/internal/platform/cdshooks"
	"github.com/neuroped/cds/internal/platform/middleware"
	"github.com/neuroped/cds/internal/platform/outcome"
	"github.com/neuroped/cds/internal/platform/telemetry"
)

// newServer wires the HTTP surface. It starts nothing.
func newServer(cfg *config.Config, logger zerolog.Logger) *echo.Echo {
	tp := telemetry.NewTelemetryProvider(telemetry.TelemetryConfig{
		ServiceName:    "cds-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
		MetricsEnabled: telemetry.BoolPtr(cfg.MetricsEnabled),
		ProcessMetrics: true,
	})

	pl := pipeline.New(pipeline.WithLogger(logger), pipeline.WithRecorder(tp))
	svc := evaluation.NewService(
		evaluation.WithPipeline(pl),
		evaluation.WithRunner(crashtest.NewRunner(
			crashtest.WithPipeline(pl),
			crashtest.WithLogger(logger),
			crashtest.WithParallelism(cfg.CrashTestParallelism),
		)),
		evaluation.WithObserver(tp),
		evaluation.WithLogger(logger),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = outcome.HTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(tp.MetricsMiddleware())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.Recovery(logger))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if cfg.MetricsEnabled {
		e.GET("/metrics", tp.PrometheusHandler())
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           middleware.DefaultRateLimitConfig().IdleTTL,
	}))

	h := evaluation.NewHandler(svc)
	h.RegisterRoutes(apiV1)

	hooks := cdshooks.NewHandler()
	h.RegisterCDSService(hooks, cfg.CDSServiceID)
	hooks.RegisterRoutes(e)

	return e
}

func runServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	e := newServer(cfg, logger)

	ctx, stop := signal.NotifyContext(cmdContext(ctx), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			logger.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
