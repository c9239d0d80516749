// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cacher shared between instances through Redis. All keys
// are stored under Prefix.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	URL            string // e.g. redis://localhost:6379/0
	Prefix         string
	DefaultTTL     time.Duration
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisCacheOptions returns sensible defaults.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         "castpage:",
		DefaultTTL:     5 * time.Minute,
		PoolSize:       10,
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
	}
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultRedisCacheOptions().DefaultTTL
	}

	client := redis.NewClient(redisOpts)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultRedisCacheOptions().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{
		client:     client,
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

// NewRedisCacheFromURL creates a Redis cache from a URL with default options.
func NewRedisCacheFromURL(url, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	if prefix != "" {
		opts.Prefix = prefix
	}
	if defaultTTL > 0 {
		opts.DefaultTTL = defaultTTL
	}
	return NewRedisCache(opts)
}

func (c *RedisCache) prefixKey(key string) string {
	return c.prefix + key
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, err := c.client.Get(ctx, c.prefixKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	c.hits.Add(1)
	return val, nil
}

// Set stores a value in the cache with the specified TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, c.prefixKey(key), value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes a key from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Del(ctx, c.prefixKey(key)).Err()
}

// DeleteByPrefix removes all keys starting with prefix (under the cache prefix).
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.scanDelete(ctx, c.prefix+prefix+"*")
}

// Clear removes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.scanDelete(ctx, c.prefix+"*")
}

// scanDelete deletes keys matching pattern using SCAN rather than KEYS.
func (c *RedisCache) scanDelete(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// Has checks if a key exists in the cache.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	n, err := c.client.Exists(ctx, c.prefixKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.client.Close()
	}
	return nil
}

// Stats returns local hit counters plus the number of keys under the prefix.
func (c *RedisCache) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	items := 0
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		items += len(keys)
		if cursor = next; cursor == 0 {
			break
		}
	}

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
	}
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Ping(ctx).Err()
}

var (
	_ Cacher        = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)
