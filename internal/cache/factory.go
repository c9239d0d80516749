// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	RedisURL         string // Empty selects the memory backend
	Prefix           string // Redis key prefix
	DefaultTTL       time.Duration
	MaxSize          int // Memory backend entry limit (0 = unlimited)
	CleanupInterval  time.Duration
	FallbackToMemory bool // Use memory when Redis is unreachable
}

// Result is a created cache and the backend that ended up serving it.
type Result struct {
	Cache      Cacher
	Backend    string
	IsFallback bool
}

// New creates the configured cache. With FallbackToMemory set, a Redis
// connection failure is logged and a memory cache is returned instead.
func New(cfg Config) (Result, error) {
	if cfg.RedisURL == "" {
		return Result{Cache: newMemory(cfg), Backend: BackendMemory}, nil
	}

	rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	if err == nil {
		slog.Info("cache backend ready", "backend", BackendRedis, "url", SanitizeRedisURL(cfg.RedisURL))
		return Result{Cache: rc, Backend: BackendRedis}, nil
	}
	if !cfg.FallbackToMemory {
		return Result{}, fmt.Errorf("connecting to redis at %s: %w", SanitizeRedisURL(cfg.RedisURL), err)
	}

	slog.Warn("redis unavailable, using memory cache",
		"category", "cache", "url", SanitizeRedisURL(cfg.RedisURL), "error", err)
	return Result{Cache: newMemory(cfg), Backend: BackendMemory, IsFallback: true}, nil
}

func newMemory(cfg Config) *MemoryCache {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: interval,
	})
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
