// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is an in-process Cacher. When MaxSize is reached, expired
// entries are dropped first and then the entry closest to expiry.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	size       int64
	defaultTTL time.Duration
	maxSize    int
	stopCh     chan struct{}
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no sweeper)
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		data:       make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = 5 * time.Minute
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// Get retrieves a copy of the value stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			c.mu.Lock()
			c.removeLocked(key)
			c.mu.Unlock()
		}
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && c.maxSize > 0 && len(c.data) >= c.maxSize {
		c.evictLocked(now)
	}
	c.removeLocked(key)
	c.data[key] = memoryEntry{value: stored, expiresAt: now.Add(ttl)}
	c.size += int64(len(stored))
	c.sets.Add(1)
	return nil
}

// evictLocked makes room for one entry.
func (c *MemoryCache) evictLocked(now time.Time) {
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			c.removeLocked(k)
		}
	}
	if len(c.data) < c.maxSize {
		return
	}

	var victim string
	var soonest time.Time
	for k, e := range c.data {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = k, e.expiresAt
		}
	}
	c.removeLocked(victim)
}

func (c *MemoryCache) removeLocked(key string) {
	if e, ok := c.data[key]; ok {
		c.size -= int64(len(e.value))
		delete(c.data, key)
	}
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	c.removeLocked(key)
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix removes all keys starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			c.removeLocked(k)
		}
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	c.data = make(map[string]memoryEntry)
	c.size = 0
	c.mu.Unlock()
	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	return ok && !time.Now().After(entry.expiresAt), nil
}

// Close stops the sweeper. Later calls return ErrCacheClosed.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	items, size := len(c.data), c.size
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
		Size:    size,
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			c.removeLocked(k)
		}
	}
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
