// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache stores resolved page tokens in memory or in Redis.
package cache

import (
	"context"
	"time"
)

// Cacher is a byte-oriented cache. Implementations must be safe for
// concurrent use.
type Cacher interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A zero ttl means the default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}

// StatsProvider is implemented by caches that count their traffic.
type StatsProvider interface {
	Stats() Stats
}

// Stats holds cache counters.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
	Size    int64   `json:"size"`
}

func hitRate(hits, misses int64) float64 {
	if total := hits + misses; total > 0 {
		return float64(hits) / float64(total) * 100
	}
	return 0
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
