package config

import (
	"errors"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ADDR", "DB_PATH", "DATABASE_URL", "JWT_SECRET", "DEV_MODE", "TOKEN_TTL",
		"LOG_LEVEL", "LOG_FORMAT", "SWEEP_INTERVAL", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DBPath != "./data/settlement.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v", cfg.SweepInterval)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DevMode || cfg.DatabaseURL != "" || cfg.OTLPEndpoint != "" {
		t.Errorf("unexpected optional settings: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/settlement")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SWEEP_INTERVAL", "0")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DatabaseURL != "postgres://localhost/settlement" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.SweepInterval != 0 {
		t.Errorf("SweepInterval = %v, want disabled", cfg.SweepInterval)
	}
	if cfg.LogFormat != "json" || cfg.OTLPEndpoint != "http://collector:4318" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadSecret(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("Load without secret = %v, want ErrMissingSecret", err)
	}

	t.Setenv("DEV_MODE", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load in dev mode failed: %v", err)
	}
	if cfg.JWTSecret == "" || !cfg.DevMode {
		t.Errorf("dev mode config = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"malformed token ttl", "TOKEN_TTL", "forever"},
		{"zero token ttl", "TOKEN_TTL", "0s"},
		{"negative sweep interval", "SWEEP_INTERVAL", "-1m"},
		{"malformed sweep interval", "SWEEP_INTERVAL", "often"},
		{"malformed dev mode", "DEV_MODE", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%q succeeded, want error", tt.key, tt.val)
			}
		})
	}
}
