package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Upstream authentication modes.
const (
	UpstreamAuthNone    = "none"
	UpstreamAuthStatic  = "static"
	UpstreamAuthDerived = "derived"
)

// ErrInvalidConfig marks configuration values that must abort startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config aggregates runtime configuration for the service.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	Credentials CredentialsConfig
	Upstream    UpstreamConfig
	Redis       RedisConfig
	Cache       CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and cookie parameters.
type AuthConfig struct {
	TokenTTLMinutes int
	CookieName      string
	CookieSecure    bool
	CookieSameSite  string
	BcryptCost      int
}

// CredentialsConfig selects where the static credential set is loaded from.
type CredentialsConfig struct {
	File string
	DSN  string
}

// UpstreamConfig describes the third-party catalog API.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
	AuthMode       string
	APIKey         string
	TokenSecret    string
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls caching of upstream catalog responses.
type CacheConfig struct {
	TTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "catalog-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "8080")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
			CookieName:      getEnv("AUTH_COOKIE_NAME", "token"),
			CookieSecure:    getEnvAsBool("AUTH_COOKIE_SECURE", false),
			CookieSameSite:  getEnv("AUTH_COOKIE_SAMESITE", "lax"),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Credentials: CredentialsConfig{
			File: getEnv("CREDENTIALS_FILE", "credentials.json"),
			DSN:  os.Getenv("CREDENTIALS_DSN"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "https://dummyjson.com"), "/"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 5),
			AuthMode:       strings.ToLower(getEnv("UPSTREAM_AUTH_MODE", UpstreamAuthNone)),
			APIKey:         os.Getenv("UPSTREAM_API_KEY"),
			TokenSecret:    os.Getenv("UPSTREAM_TOKEN_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvAsInt("CATALOG_CACHE_TTL_SECONDS", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that would weaken the auth or proxy boundary.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.CookieName) == "" {
		return fmt.Errorf("%w: AUTH_COOKIE_NAME is empty", ErrInvalidConfig)
	}
	if c.Auth.TokenTTLMinutes < 0 {
		return fmt.Errorf("%w: AUTH_TOKEN_TTL_MINUTES must not be negative", ErrInvalidConfig)
	}
	sameSite, err := c.Auth.SameSite()
	if err != nil {
		return err
	}
	if sameSite == http.SameSiteNoneMode && !c.Auth.CookieSecure {
		return fmt.Errorf("%w: SameSite=None requires AUTH_COOKIE_SECURE", ErrInvalidConfig)
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: UPSTREAM_BASE_URL %q", ErrInvalidConfig, c.Upstream.BaseURL)
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: UPSTREAM_TIMEOUT_SECONDS must be positive", ErrInvalidConfig)
	}
	switch c.Upstream.AuthMode {
	case UpstreamAuthNone:
	case UpstreamAuthStatic:
		if c.Upstream.APIKey == "" {
			return fmt.Errorf("%w: UPSTREAM_API_KEY is required in static mode", ErrInvalidConfig)
		}
	case UpstreamAuthDerived:
		if c.Upstream.TokenSecret == "" {
			return fmt.Errorf("%w: UPSTREAM_TOKEN_SECRET is required in derived mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown UPSTREAM_AUTH_MODE %q", ErrInvalidConfig, c.Upstream.AuthMode)
	}

	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: CATALOG_CACHE_TTL_SECONDS must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the token lifetime. Zero means tokens never expire.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// SameSite parses the configured cookie SameSite mode.
func (a AuthConfig) SameSite() (http.SameSite, error) {
	switch strings.TrimSpace(strings.ToLower(a.CookieSameSite)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("%w: AUTH_COOKIE_SAMESITE %q", ErrInvalidConfig, a.CookieSameSite)
	}
}

// Timeout returns the bound applied to every upstream call.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// TTL returns the cache lifetime of catalog responses.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
