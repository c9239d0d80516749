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

// knownWeakKeys contains example bootstrap keys that must be rejected in production.
var knownWeakKeys = []string{
	"cp_change-me-to-a-random-api-key",
	"cp_REPLACE_WITH_YOUR_OWN_API_KEY",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"CASTPAGE_DB_PATH" envDefault:"./data/castpage.db"`
	ServerHost string `env:"CASTPAGE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CASTPAGE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CASTPAGE_ENV" envDefault:"development"`
	LogLevel   string `env:"CASTPAGE_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"CASTPAGE_REDIS_URL"`                          // Optional Redis URL for shared caching
	CachePrefix  string `env:"CASTPAGE_CACHE_PREFIX" envDefault:"castpage:"` // Redis key prefix
	CacheTTL     int    `env:"CASTPAGE_CACHE_TTL" envDefault:"300"`          // Resolved token TTL in seconds
	CacheMaxSize int    `env:"CASTPAGE_CACHE_MAX_SIZE" envDefault:"10000"`   // Max memory cache entries

	// API configuration
	APIRateLimitRPS   float64 `env:"CASTPAGE_API_RATE_LIMIT_RPS" envDefault:"10"`
	APIRateLimitBurst int     `env:"CASTPAGE_API_RATE_LIMIT_BURST" envDefault:"20"`
	BootstrapAPIKey   string  `env:"CASTPAGE_BOOTSTRAP_API_KEY"` // Raw key registered for the admin on seed
	MetricsEnabled    bool    `env:"CASTPAGE_METRICS_ENABLED" envDefault:"true"`

	// Token engine
	HistoryLimit int `env:"CASTPAGE_HISTORY_LIMIT" envDefault:"20"` // Override snapshots kept per page

	// Maintenance
	MaintenanceEnabled  bool   `env:"CASTPAGE_MAINTENANCE_ENABLED" envDefault:"true"`
	MaintenanceSchedule string `env:"CASTPAGE_MAINTENANCE_SCHEDULE" envDefault:"0 * * * *"` // Standard cron expression
	EventRetentionDays  int    `env:"CASTPAGE_EVENT_RETENTION_DAYS" envDefault:"30"`        // 0 keeps events forever

	// Seeding configuration
	DoSeed         bool   `env:"CASTPAGE_DO_SEED" envDefault:"false"`
	AdminPassword  string `env:"CASTPAGE_ADMIN_PASSWORD"`
	SeedSamplePage bool   `env:"CASTPAGE_SEED_SAMPLE_PAGE" envDefault:"false"`
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

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns the event log retention as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog level. Unknown values read as info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinBootstrapKeyLength is the minimum length accepted for CASTPAGE_BOOTSTRAP_API_KEY.
const MinBootstrapKeyLength = 24

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("CASTPAGE_HISTORY_LIMIT must be at least 1, got %d", cfg.HistoryLimit)
	}
	if cfg.APIRateLimitRPS <= 0 || cfg.APIRateLimitBurst < 1 {
		return nil, fmt.Errorf("CASTPAGE_API_RATE_LIMIT_RPS and _BURST must be positive, got %g/%d",
			cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if cfg.EventRetentionDays < 0 {
		return nil, fmt.Errorf("CASTPAGE_EVENT_RETENTION_DAYS must not be negative, got %d", cfg.EventRetentionDays)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CASTPAGE_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}

	if key := cfg.BootstrapAPIKey; key != "" {
		if len(key) < MinBootstrapKeyLength {
			return nil, fmt.Errorf("CASTPAGE_BOOTSTRAP_API_KEY must be at least %d bytes long, got %d bytes",
				MinBootstrapKeyLength, len(key))
		}
		if !cfg.IsDevelopment() {
			for _, weak := range knownWeakKeys {
				if key == weak {
					return nil, fmt.Errorf("CASTPAGE_BOOTSTRAP_API_KEY is a known example value and must not be used " +
						"outside development")
				}
			}
		}
		if !hasMinimumEntropy(key) {
			slog.Warn("CASTPAGE_BOOTSTRAP_API_KEY has low character diversity; " +
				"consider generating one with: openssl rand -base64 32")
		}
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
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
