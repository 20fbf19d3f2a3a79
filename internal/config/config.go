// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SessionSecret string `env:"RESTRO_SESSION_SECRET,required"`
	ServerHost    string `env:"RESTRO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"RESTRO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"RESTRO_ENV" envDefault:"development"`
	LogLevel      string `env:"RESTRO_LOG_LEVEL" envDefault:"info"`
	SiteName      string `env:"RESTRO_SITE_NAME" envDefault:"Restro"`

	// Backend API
	APIBaseURL   string        `env:"RESTRO_API_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	MediaBaseURL string        `env:"RESTRO_MEDIA_BASE_URL"` // Defaults to APIBaseURL
	APITimeout   time.Duration `env:"RESTRO_API_TIMEOUT" envDefault:"15s"`

	// Back-office
	PageSize   int           `env:"RESTRO_PAGE_SIZE" envDefault:"10"`
	FlashDelay time.Duration `env:"RESTRO_FLASH_DELAY" envDefault:"3s"` // Success banner auto-dismiss

	// Uploads
	MaxUploadMB       int `env:"RESTRO_MAX_UPLOAD_MB" envDefault:"10"`
	ImageMaxDimension int `env:"RESTRO_IMAGE_MAX_DIMENSION" envDefault:"1920"`

	// Public cache
	RedisURL    string `env:"RESTRO_REDIS_URL"` // Optional, memory cache otherwise
	CachePrefix string `env:"RESTRO_CACHE_PREFIX" envDefault:"restro:"`
	CacheTTL    int    `env:"RESTRO_CACHE_TTL" envDefault:"300"` // Seconds

	// GeoIP configuration
	GeoIPDBPath string `env:"RESTRO_GEOIP_DB_PATH"` // Path to GeoLite2-City.mmdb file

	// Public form throttling, requests per second per IP
	FormRateLimit float64 `env:"RESTRO_FORM_RATE_LIMIT" envDefault:"0.2"`
	FormRateBurst int     `env:"RESTRO_FORM_RATE_BURST" envDefault:"3"`

	// TrustProxy honours X-Real-IP and X-Forwarded-For for client addresses.
	TrustProxy bool `env:"RESTRO_TRUST_PROXY" envDefault:"false"`

	// MetricsAddr is the Prometheus listener, kept off the public port. Empty disables it.
	MetricsAddr string `env:"RESTRO_METRICS_ADDR" envDefault:"127.0.0.1:9100"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MetricsEnabled returns true if the metrics listener is configured.
func (c Config) MetricsEnabled() bool {
	return c.MetricsAddr != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MediaURL returns the base URL used for backend-hosted images.
func (c Config) MediaURL() string {
	if c.MediaBaseURL != "" {
		return strings.TrimRight(c.MediaBaseURL, "/")
	}
	return strings.TrimRight(c.APIBaseURL, "/")
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// CacheTTLDuration returns the public cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("RESTRO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("RESTRO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("RESTRO_API_BASE_URL must be an http(s) URL, got %q", cfg.APIBaseURL)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("RESTRO_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.FormRateLimit <= 0 || cfg.FormRateBurst < 1 {
		return nil, fmt.Errorf("RESTRO_FORM_RATE_LIMIT and RESTRO_FORM_RATE_BURST must be positive")
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("RESTRO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
