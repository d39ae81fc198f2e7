package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STORE_BACKEND", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.StoreBackend != "memory" {
		t.Fatalf("expected memory store backend by default, got %s", cfg.StoreBackend)
	}
	if cfg.FXFetchTimeout != 3*time.Second {
		t.Fatalf("expected default fx fetch timeout, got %s", cfg.FXFetchTimeout)
	}
	if cfg.FXBaseURL == "" {
		t.Fatalf("expected default fx base url")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("FX_FETCH_TIMEOUT", "5s")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.StoreBackend != "redis" {
		t.Fatalf("expected redis backend, got %s", cfg.StoreBackend)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.FXFetchTimeout != 5*time.Second {
		t.Fatalf("expected fx fetch timeout override, got %s", cfg.FXFetchTimeout)
	}
}
