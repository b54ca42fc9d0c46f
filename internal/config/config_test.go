package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	os.Unsetenv("DB_PATH")
	os.Unsetenv("HTTP_ADDRESS")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("OVERDUE_FEE")
	os.Unsetenv("SWEEP_INTERVAL")
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.HTTP.Address == "" || cfg.Database.Path == "" || cfg.Auth.JWTSecret == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Loans.OverdueFee <= 0 || cfg.Loans.SweepInterval <= 0 {
		t.Fatalf("unexpected loan defaults: %+v", cfg.Loans)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("HTTP_ADDRESS", ":1234")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("OVERDUE_FEE", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative OVERDUE_FEE")
	}
	t.Setenv("OVERDUE_FEE", "2500")
	t.Setenv("SWEEP_INTERVAL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad SWEEP_INTERVAL")
	}
	t.Setenv("SWEEP_INTERVAL", "30m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Loans.OverdueFee != 2500 || cfg.Loans.SweepInterval != 30*time.Minute {
		t.Fatalf("values not applied: %+v", cfg.Loans)
	}
}
