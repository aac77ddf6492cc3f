package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Upstream.BaseURL != "https://api.ebookstore.test" {
		t.Fatalf("unexpected upstream base url: %q", cfg.Upstream.BaseURL)
	}

	if got := cfg.Upstream.Timeout; got != 30*time.Second {
		t.Fatalf("expected default upstream timeout 30s, got %v", got)
	}

	if got := cfg.Session.TTL(); got != 43200*time.Minute {
		t.Fatalf("unexpected session ttl: %v", got)
	}

	if cfg.Redis.Enabled() {
		t.Fatal("redis should be disabled when no URL is set")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv("EBOOKSTORE_APP_ENV"); err != nil {
		t.Fatalf("failed to unset app env: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsBadUpstreamURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("EBOOKSTORE_UPSTREAM_BASE_URL", "ftp://files.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http upstream url to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("EBOOKSTORE_APP_ENV", "production")
	t.Setenv("EBOOKSTORE_APP_PORT", "8081")
	t.Setenv("EBOOKSTORE_UPSTREAM_BASE_URL", "https://api.ebookstore.test")
	t.Setenv("EBOOKSTORE_SESSION_SECRET", "secret")
	os.Unsetenv("EBOOKSTORE_REDIS_URL")
}
