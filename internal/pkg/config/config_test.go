package config

import (
	"context"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "change-me-now")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Fatalf("unexpected defaults: port=%s env=%s", cfg.Port, cfg.Env)
	}
	if cfg.StorageDriver != "badger" || cfg.SessionStore != "memory" {
		t.Fatalf("unexpected driver defaults: %s/%s", cfg.StorageDriver, cfg.SessionStore)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL)
	}
	if cfg.Bootstrap.AdminUsername != "admin" {
		t.Fatalf("unexpected bootstrap username: %s", cfg.Bootstrap.AdminUsername)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "change-me-now")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error when JWT_SECRET is empty")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "cassandra")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StorageDriver != "mongo" || cfg.SessionStore != "redis" {
		t.Fatalf("overrides not applied: %s/%s", cfg.StorageDriver, cfg.SessionStore)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("ttl override not applied: %s", cfg.TokenTTL)
	}
}
