package config

import (
	"os"
	"testing"
)

// unset clears an environment variable for the test while keeping t.Setenv's
// restore-on-cleanup behavior.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	unset(t, "PORT")
	unset(t, "ACCESS_TOKEN_TTL_MINUTES")
	unset(t, "INVOICE_TTL_HOURS")
	unset(t, "DEFAULT_TERMINAL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("default token ttl = %d, want 480", cfg.AccessTokenTTLMinutes)
	}
	if cfg.DefaultTerminal != "counter-1" {
		t.Fatalf("default terminal = %q, want counter-1", cfg.DefaultTerminal)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("Address() = %q, want :8080", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_SECRET", "  0123456789abcdef0123456789abcdef  ")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Port)
	}
	if cfg.AuthSecret != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("auth secret not trimmed: %q", cfg.AuthSecret)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("redis db = %d, want 3", cfg.RedisDB)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{AuthSecret: "short", SeedAdminPassword: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short secret")
	}

	cfg = Config{AuthSecret: "0123456789abcdef0123456789abcdef"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing seed password")
	}

	cfg.SeedAdminPassword = "admin-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
