package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected env/level %s/%s", cfg.Env, cfg.LogLevel)
	}
	if cfg.BodyLimit != "1M" || cfg.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected body limit/timeout %s/%s", cfg.BodyLimit, cfg.RequestTimeout)
	}
	if cfg.CrashTestParallelism != 4 || !cfg.MetricsEnabled {
		t.Errorf("unexpected parallelism/metrics %d/%v", cfg.CrashTestParallelism, cfg.MetricsEnabled)
	}
	if cfg.CDSServiceID != "pediatric-neuro-severity" {
		t.Errorf("unexpected CDS service id %s", cfg.CDSServiceID)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CRASHTEST_PARALLELISM", "8")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9100" || !cfg.IsProduction() || cfg.IsDev() {
		t.Errorf("unexpected port/env %s/%s", cfg.Port, cfg.Env)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", cfg.Level())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("expected two trimmed origins, got %v", cfg.CORSOrigins)
	}
	if cfg.CrashTestParallelism != 8 || cfg.MetricsEnabled || cfg.RequestTimeout != 5*time.Second {
		t.Errorf("unexpected overrides %+v", cfg)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7000\nCDS_SERVICE_ID=neuro-test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7000" || cfg.CDSServiceID != "neuro-test" {
		t.Errorf("expected .env values, got %s/%s", cfg.Port, cfg.CDSServiceID)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port: "8000", Env: "development", LogLevel: "info",
			CrashTestParallelism: 4, CDSServiceID: "svc",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad env", func(c *Config) { c.Env = "qa" }, "ENV"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"zero parallelism", func(c *Config) { c.CrashTestParallelism = 0 }, "CRASHTEST_PARALLELISM"},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, "REQUEST_TIMEOUT"},
		{"negative rate", func(c *Config) { c.RateLimitRPS = -1 }, "RATE_LIMIT"},
		{"no service id", func(c *Config) { c.CDSServiceID = " " }, "CDS_SERVICE_ID"},
		{"wildcard cors in prod", func(c *Config) { c.Env = "production"; c.CORSOrigins = []string{"*"} }, "CORS_ORIGINS"},
		{"wildcard cors in dev", func(c *Config) { c.CORSOrigins = []string{"*"} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
