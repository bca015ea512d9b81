// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenExpire != 15*time.Minute {
		t.Errorf("access expire = %s, want 15m", cfg.JWT.AccessTokenExpire)
	}
	if cfg.Security.LockoutThreshold != 3 {
		t.Errorf("lockout threshold = %d, want 3", cfg.Security.LockoutThreshold)
	}
	if cfg.Security.LockoutDuration != 30*time.Minute {
		t.Errorf("lockout duration = %s, want 30m", cfg.Security.LockoutDuration)
	}
	if cfg.Remise.MontantParProspect != 1000 {
		t.Errorf("montant = %d, want 1000", cfg.Remise.MontantParProspect)
	}
	if cfg.Affiliation.BaseURL == "" {
		t.Error("affiliation base URL should have a default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOCKOUT_THRESHOLD", "5")
	t.Setenv("MONTANT_PAR_PROSPECT", "2500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Security.LockoutThreshold != 5 {
		t.Errorf("lockout threshold = %d, want 5", cfg.Security.LockoutThreshold)
	}
	if cfg.Remise.MontantParProspect != 2500 {
		t.Errorf("montant = %d, want 2500", cfg.Remise.MontantParProspect)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	if _, err := Load(""); err == nil {
		t.Error("expected error without DATABASE_URL")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.CORS.AllowCredentials = true
	cfg.CORS.AllowedOrigins = []string{"*"}
	if err := validate(cfg); err == nil {
		t.Error("expected wildcard origin with credentials to be rejected")
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("production flags wrong")
	}

	cfg.App.Environment = "development"
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("development flags wrong")
	}
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	if got := s.Address(); got != "127.0.0.1:8081" {
		t.Errorf("Address() = %s", got)
	}
}
