package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Port != "8080" || cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.API.PollInterval != 30*time.Second || cfg.Session.Store != StoreMemory || cfg.Audit.Sink != AuditLog {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_STORE": "redis",
		"AUDIT_SINK":    "mongo",
		"POLL_INTERVAL": "5s",
		"COOKIE_SECURE": "true",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Session.Store != StoreRedis || cfg.Audit.Sink != AuditMongo || !cfg.Session.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.API.PollInterval != 5*time.Second {
		t.Fatalf("unexpected poll interval %s", cfg.API.PollInterval)
	}
}

func TestLoadWith_RejectsUnknownStore(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"SESSION_STORE": "etcd"}))
	if err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestLoadDevAPI(t *testing.T) {
	cfg, err := LoadDevAPI(context.Background(), envconfig.MapLookuper(map[string]string{
		"DEVAPI_PORT": "9100",
	}))
	if err != nil {
		t.Fatalf("LoadDevAPI: %v", err)
	}
	if cfg.Port != "9100" || cfg.TokenTTL != 24*time.Hour || cfg.JWTSecret == "" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := LoadDevAPI(context.Background(), envconfig.MapLookuper(map[string]string{
		"DEVAPI_TOKEN_TTL": "0s",
	})); err == nil {
		t.Fatal("expected an error for a zero token ttl")
	}
}

func TestLoadCLI_UsesPrefix(t *testing.T) {
	cfg, err := LoadCLI(context.Background(), envconfig.MapLookuper(map[string]string{
		"WILDGUARD_API_URL":       "http://backend:8000/api",
		"WILDGUARD_POLL_INTERVAL": "10s",
		"API_URL":                 "http://ignored",
	}))
	if err != nil {
		t.Fatalf("LoadCLI: %v", err)
	}
	if cfg.APIURL != "http://backend:8000/api" || cfg.PollInterval != 10*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected default log level %q", cfg.LogLevel)
	}
}
