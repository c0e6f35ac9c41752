package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "DEFAULT_WIN_BACK_DAYS", "SERVICE_PRICE_FALLBACK"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DefaultWinBackDays != 30 || cfg.DefaultReminderDays != 2 {
		t.Fatalf("unexpected outreach defaults: %d/%d", cfg.DefaultWinBackDays, cfg.DefaultReminderDays)
	}
	if cfg.SeasonalSampleSize != 5 {
		t.Fatalf("expected seasonal sample size 5, got %d", cfg.SeasonalSampleSize)
	}
	if cfg.ServicePriceFallback != 40 || cfg.ProductPriceFallback != 20 {
		t.Fatalf("unexpected price fallbacks: %v/%v", cfg.ServicePriceFallback, cfg.ProductPriceFallback)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.IsProduction() {
		t.Fatal("development env reported as production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "Production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("DEFAULT_WIN_BACK_DAYS", "45")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("OUTREACH_SALON_NAME", "Studio Nord")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rps override, got %v", cfg.RateLimitRPS)
	}
	if cfg.DefaultWinBackDays != 45 {
		t.Fatalf("expected win-back override, got %d", cfg.DefaultWinBackDays)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected shutdown override, got %s", cfg.ShutdownTimeout)
	}
	if cfg.SalonName != "Studio Nord" {
		t.Fatalf("expected salon name override, got %s", cfg.SalonName)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("PRODUCT_PRICE_FALLBACK", "cheap")
	cfg := Load()
	if cfg.RateLimitBurst != 40 {
		t.Fatalf("expected burst default, got %d", cfg.RateLimitBurst)
	}
	if cfg.ProductPriceFallback != 20 {
		t.Fatalf("expected product fallback default, got %v", cfg.ProductPriceFallback)
	}
}
