// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/castpage.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/castpage.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, 20)
	}
	if cfg.CachePrefix != "castpage:" {
		t.Errorf("CachePrefix = %q, want %q", cfg.CachePrefix, "castpage:")
	}
	if cfg.APIRateLimitRPS != 10 || cfg.APIRateLimitBurst != 20 {
		t.Errorf("rate limit = %g/%d, want 10/20", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true without a URL")
	}
	if !cfg.MaintenanceEnabled || cfg.MaintenanceSchedule != "0 * * * *" {
		t.Errorf("maintenance = %v %q, want enabled hourly", cfg.MaintenanceEnabled, cfg.MaintenanceSchedule)
	}
	if cfg.EventRetention() != 30*24*time.Hour {
		t.Errorf("EventRetention() = %v, want 720h", cfg.EventRetention())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CASTPAGE_DB_PATH", "/custom/path.db")
	setEnv(t, "CASTPAGE_SERVER_HOST", "0.0.0.0")
	setEnv(t, "CASTPAGE_SERVER_PORT", "3000")
	setEnv(t, "CASTPAGE_ENV", "production")
	setEnv(t, "CASTPAGE_LOG_LEVEL", "debug")
	setEnv(t, "CASTPAGE_REDIS_URL", "redis://localhost:6379/1")
	setEnv(t, "CASTPAGE_CACHE_TTL", "60")
	setEnv(t, "CASTPAGE_HISTORY_LIMIT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want %v", cfg.SlogLevel(), slog.LevelDebug)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false, want true")
	}
	if cfg.CacheTTLDuration() != time.Minute {
		t.Errorf("CacheTTLDuration() = %v, want %v", cfg.CacheTTLDuration(), time.Minute)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, 5)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero history limit", "CASTPAGE_HISTORY_LIMIT", "0"},
		{"negative rps", "CASTPAGE_API_RATE_LIMIT_RPS", "-1"},
		{"zero burst", "CASTPAGE_API_RATE_LIMIT_BURST", "0"},
		{"negative ttl", "CASTPAGE_CACHE_TTL", "-5"},
		{"negative retention", "CASTPAGE_EVENT_RETENTION_DAYS", "-1"},
		{"bad port", "CASTPAGE_SERVER_PORT", "http"},
		{"short bootstrap key", "CASTPAGE_BOOTSTRAP_API_KEY", "cp_short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail with %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_WeakBootstrapKey(t *testing.T) {
	weak := knownWeakKeys[0]

	t.Run("development", func(t *testing.T) {
		os.Clearenv()
		setEnv(t, "CASTPAGE_BOOTSTRAP_API_KEY", weak)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.BootstrapAPIKey != weak {
			t.Errorf("BootstrapAPIKey = %q, want %q", cfg.BootstrapAPIKey, weak)
		}
	})

	t.Run("production", func(t *testing.T) {
		os.Clearenv()
		setEnv(t, "CASTPAGE_ENV", "production")
		setEnv(t, "CASTPAGE_BOOTSTRAP_API_KEY", weak)

		if _, err := Load(); err == nil {
			t.Fatal("Load() should reject a known example key in production")
		}
	})
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_ServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 8080, "localhost:8080"},
		{"0.0.0.0", 3000, "0.0.0.0:3000"},
		{"127.0.0.1", 443, "127.0.0.1:443"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := Config{ServerHost: tt.host, ServerPort: tt.port}
			if got := cfg.ServerAddr(); got != tt.want {
				t.Errorf("ServerAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcdefABCDEF", false},
		{"abcABC123", true},
		{"cp_abc123", true},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.s); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}
