package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("BANK_API_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RECONCILE_STRATEGY", "")
	t.Setenv("RECONCILE_STRICT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("expected base url %s, got %s", defaultAPIBaseURL, cfg.APIBaseURL)
	}
	if cfg.ReconcileStrategy != StrategyReadModifyWrite {
		t.Fatalf("expected default strategy, got %s", cfg.ReconcileStrategy)
	}
	if cfg.StrictReconcile {
		t.Fatalf("strict mode must be off by default")
	}
	if cfg.JWTSecret != defaultDevJWTSecret {
		t.Fatalf("expected dev secret fallback")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BANK_API_URL", "https://bank.example.com/api/")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RECONCILE_STRATEGY", "DELTA")
	t.Setenv("RECONCILE_STRICT", "true")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://bank.example.com/api" {
		t.Fatalf("trailing slash not trimmed: %s", cfg.APIBaseURL)
	}
	if cfg.ReconcileStrategy != StrategyDelta || !cfg.StrictReconcile {
		t.Fatalf("unexpected reconcile settings: %+v", cfg)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("expected 3s shutdown, got %s", cfg.ShutdownPeriod)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m ttl, got %s", cfg.AccessTokenTTL)
	}
}

func TestLoadRequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RECONCILE_STRATEGY", "")
	t.Setenv("RECONCILE_STRICT", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing secret error")
	}
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("RECONCILE_STRATEGY", "optimistic")
	t.Setenv("RECONCILE_STRICT", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected strategy error")
	}
}
