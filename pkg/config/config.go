package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EBOOKSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"EBOOKSTORE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EBOOKSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EBOOKSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig locates the bookstore REST backend this gateway fronts.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"EBOOKSTORE_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"EBOOKSTORE_UPSTREAM_TIMEOUT" default:"30s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid upstream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("upstream base url must be http(s), got %q", u.BaseURL)
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	return nil
}

type SessionConfig struct {
	CookieName string `envconfig:"EBOOKSTORE_SESSION_COOKIE" default:"ebookstore_session"`
	Secret     string `envconfig:"EBOOKSTORE_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"EBOOKSTORE_SESSION_ISSUER" default:"ebookstore-gateway"`
	// TTL applies to sessions saved with remember-me; SessionTTL covers
	// the browser-session-only variant.
	TTLMinutes        int  `envconfig:"EBOOKSTORE_SESSION_TTL_MINUTES" default:"43200"`
	SessionTTLMinutes int  `envconfig:"EBOOKSTORE_SESSION_SHORT_TTL_MINUTES" default:"720"`
	CookieSecure      bool `envconfig:"EBOOKSTORE_SESSION_COOKIE_SECURE" default:"true"`
}

func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func (s SessionConfig) ShortTTL() time.Duration {
	if s.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// RedisConfig is optional: an empty URL selects the in-memory session store.
type RedisConfig struct {
	URL          string        `envconfig:"EBOOKSTORE_REDIS_URL"`
	PoolSize     int           `envconfig:"EBOOKSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EBOOKSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EBOOKSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EBOOKSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EBOOKSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EBOOKSTORE_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
