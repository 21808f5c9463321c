// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingSecret is returned when JWT_SECRET is unset outside dev mode.
var ErrMissingSecret = errors.New("JWT_SECRET is required unless DEV_MODE=true")

// devSecret signs tokens in dev mode when no secret is configured.
const devSecret = "dev-only-insecure-secret"

// Config is read once at startup and passed down explicitly.
type Config struct {
	Addr string

	// DBPath is the SQLite file used when DatabaseURL is empty.
	DBPath string
	// DatabaseURL selects the Postgres store when set.
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration
	DevMode   bool

	LogLevel  string
	LogFormat string

	// SweepInterval is how often expired mediator proposals are persisted.
	// Zero disables the sweeper.
	SweepInterval time.Duration

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("ADDR", ":8080"),
		DBPath:       getEnv("DB_PATH", "./data/settlement.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if v := os.Getenv("DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEV_MODE %q: %w", v, err)
		}
		cfg.DevMode = dev
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.TokenTTL == 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive")
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		if !cfg.DevMode {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = devSecret
	}
	return cfg, nil
}
