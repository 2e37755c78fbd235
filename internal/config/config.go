package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// Config holds all environment backed configuration for the chat-share service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-share"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8190"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`

	// PublicBaseURL is the origin share links are built on when no request origin is available.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8190"`

	// Storage
	StoreDriver          string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL          string `env:"DATABASE_URL"`
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"`
	DBMaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBMaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	AutoMigrate          bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	SeedFile             string `env:"SEED_FILE"`

	// Cache
	RedisURL       string        `env:"REDIS_URL"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	LocalCacheSize int           `env:"LOCAL_CACHE_SIZE" envDefault:"1024"`

	// Auth
	AuthEnabled         bool          `env:"AUTH_ENABLED" envDefault:"false"`
	AuthJWTSecret       string        `env:"AUTH_JWT_SECRET"`
	AuthJWKSURL         string        `env:"JWKS_URL"`
	AuthIssuer          string        `env:"ISSUER"`
	AuthAudience        string        `env:"AUDIENCE"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
}

// Load parses environment variables into Config and validates them.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))

	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthJWTSecret) == "" && strings.TrimSpace(c.AuthJWKSURL) == "" {
			return errors.New("AUTH_JWT_SECRET or JWKS_URL is required when AUTH_ENABLED is true")
		}
		if c.AuthJWKSURL != "" {
			if _, err := url.ParseRequestURI(c.AuthJWKSURL); err != nil {
				return fmt.Errorf("invalid JWKS_URL: %w", err)
			}
		}
	}

	base, err := url.Parse(c.PublicBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("invalid PUBLIC_BASE_URL %q", c.PublicBaseURL)
	}

	if c.LocalCacheSize < 0 {
		return errors.New("LOCAL_CACHE_SIZE must not be negative")
	}

	return nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheEnabled reports whether a conversation cache should wrap the store.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != "" || c.LocalCacheSize > 0
}
