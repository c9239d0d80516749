// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache stores values of one type as JSON in a Cacher.
type TypedCache[T any] struct {
	cache      Cacher
	defaultTTL time.Duration
}

// NewTypedCache creates a new TypedCache wrapping the given cache implementation.
func NewTypedCache[T any](cache Cacher, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value. Any backend or decoding error reads as a miss.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Set stores a value in the cache with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key from the cache.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// DeleteByPrefix removes all keys starting with prefix.
func (c *TypedCache[T]) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.cache.DeleteByPrefix(ctx, prefix)
}

// GetOrSet returns the cached value, or computes, stores and returns it.
// The bool result reports a cache hit. A failed store does not fail the call.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, error)) (*T, bool, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, true, nil
	}

	value, err := fn()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, value)
	return value, false, nil
}
