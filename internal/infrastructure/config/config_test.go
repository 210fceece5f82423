package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.EngineStoreTimeout != 5*time.Second || cfg.EngineMaxRetries != 1 {
		t.Fatalf("unexpected engine defaults: timeout=%s retries=%d", cfg.EngineStoreTimeout, cfg.EngineMaxRetries)
	}

	if cfg.RedisPoolSize != 20 || cfg.RedisMinIdleConns != 2 || cfg.RedisDialTimeout != 5*time.Second {
		t.Fatalf("unexpected redis pool defaults: size=%d idle=%d dial=%s",
			cfg.RedisPoolSize, cfg.RedisMinIdleConns, cfg.RedisDialTimeout)
	}
}

func TestAnomalyRulesDefaultsMatchDomain(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	got := cfg.AnomalyRules()
	want := domain.DefaultAnomalyRules()

	if got.VelocityWindow != want.VelocityWindow || got.VelocityLimit != want.VelocityLimit {
		t.Fatalf("velocity rules = %s/%d, want %s/%d", got.VelocityWindow, got.VelocityLimit, want.VelocityWindow, want.VelocityLimit)
	}
	if !got.MagnitudeRatio.Equal(want.MagnitudeRatio) {
		t.Fatalf("magnitude ratio = %s, want %s", got.MagnitudeRatio, want.MagnitudeRatio)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("REDIS_POOL_SIZE", "64")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("ANOMALY_MAGNITUDE_RATIO", "0.5")
	t.Setenv("ANOMALY_VELOCITY_LIMIT", "10")
	t.Setenv("PUBLISHER_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.RedisPoolSize != 64 {
		t.Fatalf("expected redis pool size override, got %d", cfg.RedisPoolSize)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected JWT secret override, got %s", cfg.JWTSecret)
	}

	rules := cfg.AnomalyRules()
	if !rules.MagnitudeRatio.Equal(decimal.RequireFromString("0.5")) || rules.VelocityLimit != 10 {
		t.Fatalf("unexpected anomaly rules: %+v", rules)
	}

	if cfg.PublisherEnabled {
		t.Fatalf("expected publisher to be disabled")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidRatio(t *testing.T) {
	t.Setenv("ANOMALY_MAGNITUDE_RATIO", "eighty percent")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid magnitude ratio")
	}
}
