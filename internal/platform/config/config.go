package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	SettingsFile   string
	Multisite      bool
	SecureCookies  bool
	SessionKey     string
	NonceKey       string
	NonceTTL       time.Duration
	AdminTokenHash string
	LogLevel       string
	LogFormat      string
	Redis          RedisConfig
	DatabaseURL    string
	ConsentTTL     time.Duration
	RateLimit      RateLimitConfig

	// TrustProxyHeaders reads the client IP from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// RateLimitConfig caps favorites requests per client IP. Zero requests
// disables limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RedisConfig configures the optional Redis backend. An empty URL keeps the
// in-memory stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	DefaultAddr         = ":8080"
	DefaultSettingsFile = "favorites.yaml"
	DefaultNonceTTL     = 12 * time.Hour
	DefaultConsentTTL   = 365 * 24 * time.Hour
	DefaultRateLimit    = 60
	DefaultRateWindow   = time.Minute
)

// DefaultRedis returns pool settings suited to a single small instance.
func DefaultRedis() RedisConfig {
	return RedisConfig{
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:           getEnv("FAVORITES_ADDR", DefaultAddr),
		SettingsFile:   getEnv("FAVORITES_SETTINGS_FILE", DefaultSettingsFile),
		SessionKey:     os.Getenv("FAVORITES_SESSION_KEY"),
		NonceKey:       os.Getenv("FAVORITES_NONCE_KEY"),
		AdminTokenHash: os.Getenv("FAVORITES_ADMIN_TOKEN_HASH"),
		LogLevel:       getEnv("FAVORITES_LOG_LEVEL", "info"),
		LogFormat:      getEnv("FAVORITES_LOG_FORMAT", "json"),
		DatabaseURL:    os.Getenv("FAVORITES_DATABASE_URL"),
		Redis:          DefaultRedis(),
	}
	cfg.Redis.URL = os.Getenv("FAVORITES_REDIS_URL")

	var err error
	if cfg.Multisite, err = getBool("FAVORITES_MULTISITE", false); err != nil {
		return Server{}, err
	}
	if cfg.SecureCookies, err = getBool("FAVORITES_SECURE_COOKIES", true); err != nil {
		return Server{}, err
	}
	if cfg.TrustProxyHeaders, err = getBool("FAVORITES_TRUST_PROXY_HEADERS", false); err != nil {
		return Server{}, err
	}
	if cfg.NonceTTL, err = getDuration("FAVORITES_NONCE_TTL", DefaultNonceTTL); err != nil {
		return Server{}, err
	}
	if cfg.ConsentTTL, err = getDuration("FAVORITES_CONSENT_TTL", DefaultConsentTTL); err != nil {
		return Server{}, err
	}

	if cfg.RateLimit.Requests, err = getInt("FAVORITES_RATE_LIMIT", DefaultRateLimit); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Window, err = getDuration("FAVORITES_RATE_LIMIT_WINDOW", DefaultRateWindow); err != nil {
		return Server{}, err
	}

	if cfg.SessionKey == "" {
		// Development default; production deployments must override it.
		cfg.SessionKey = "dev-session-key-change-in-production"
	}
	if cfg.NonceKey == "" {
		cfg.NonceKey = cfg.SessionKey
	}
	return cfg, nil
}

// Validate reports configuration that cannot start a server.
func (c Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.NonceTTL <= 0 {
		return fmt.Errorf("nonce ttl must be positive, got %s", c.NonceTTL)
	}
	if c.ConsentTTL <= 0 {
		return fmt.Errorf("consent ttl must be positive, got %s", c.ConsentTTL)
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
