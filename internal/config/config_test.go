package config

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "PORT", "AUTH_TOKEN_TTL_MINUTES", "AUTH_COOKIE_NAME",
		"AUTH_COOKIE_SAMESITE", "AUTH_COOKIE_SECURE", "UPSTREAM_BASE_URL",
		"UPSTREAM_TIMEOUT_SECONDS", "UPSTREAM_AUTH_MODE", "REDIS_ADDR", "CREDENTIALS_DSN",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.App.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:8080")
	}
	if got := cfg.Auth.TokenTTL(); got != time.Hour {
		t.Errorf("TokenTTL() = %v, want 1h", got)
	}
	if cfg.Auth.CookieName != "token" {
		t.Errorf("CookieName = %q, want %q", cfg.Auth.CookieName, "token")
	}
	if got := cfg.Upstream.Timeout(); got != 5*time.Second {
		t.Errorf("upstream Timeout() = %v, want 5s", got)
	}
	if cfg.Upstream.BaseURL != "https://dummyjson.com" {
		t.Errorf("BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without REDIS_ADDR")
	}
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.App.Port, "9090")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth: AuthConfig{TokenTTLMinutes: 60, CookieName: "token", CookieSameSite: "lax"},
			Upstream: UpstreamConfig{
				BaseURL:        "https://dummyjson.com",
				TimeoutSeconds: 5,
				AuthMode:       UpstreamAuthNone,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "samesite none without secure", mutate: func(c *Config) { c.Auth.CookieSameSite = "none" }, wantErr: true},
		{name: "samesite none with secure", mutate: func(c *Config) {
			c.Auth.CookieSameSite = "none"
			c.Auth.CookieSecure = true
		}},
		{name: "unknown samesite", mutate: func(c *Config) { c.Auth.CookieSameSite = "loose" }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Auth.TokenTTLMinutes = -1 }, wantErr: true},
		{name: "empty cookie name", mutate: func(c *Config) { c.Auth.CookieName = " " }, wantErr: true},
		{name: "relative upstream url", mutate: func(c *Config) { c.Upstream.BaseURL = "/products" }, wantErr: true},
		{name: "zero upstream timeout", mutate: func(c *Config) { c.Upstream.TimeoutSeconds = 0 }, wantErr: true},
		{name: "static without key", mutate: func(c *Config) { c.Upstream.AuthMode = UpstreamAuthStatic }, wantErr: true},
		{name: "static with key", mutate: func(c *Config) {
			c.Upstream.AuthMode = UpstreamAuthStatic
			c.Upstream.APIKey = "k"
		}},
		{name: "derived without secret", mutate: func(c *Config) { c.Upstream.AuthMode = UpstreamAuthDerived }, wantErr: true},
		{name: "unknown mode", mutate: func(c *Config) { c.Upstream.AuthMode = "passthrough" }, wantErr: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Cache.TTLSeconds = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestSameSite(t *testing.T) {
	tests := map[string]http.SameSite{
		"":       http.SameSiteLaxMode,
		"Lax":    http.SameSiteLaxMode,
		"strict": http.SameSiteStrictMode,
		"NONE":   http.SameSiteNoneMode,
	}
	for in, want := range tests {
		got, err := AuthConfig{CookieSameSite: in}.SameSite()
		if err != nil {
			t.Fatalf("SameSite(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("SameSite(%q) = %v, want %v", in, got, want)
		}
	}
}
