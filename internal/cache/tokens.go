// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/tokens"
)

const pageTokensPrefix = "tokens:page:"

// PageTokenCache holds resolved tokens per page and defaults version.
// Entries are dropped when anything feeding the page's resolution changes.
type PageTokenCache struct {
	typed   *TypedCache[model.PageTokens]
	version string
}

// NewPageTokenCache wraps c for resolved page tokens built from the
// compiled-in defaults.
func NewPageTokenCache(c Cacher, ttl time.Duration) *PageTokenCache {
	return newPageTokenCache(c, ttl, tokens.DefaultVersion)
}

func newPageTokenCache(c Cacher, ttl time.Duration, version string) *PageTokenCache {
	return &PageTokenCache{typed: NewTypedCache[model.PageTokens](c, ttl), version: version}
}

// PageKey returns the cache key for a page under a defaults version.
func PageKey(version string, pageID int64) string {
	return pageTokensPrefix + version + ":" + strconv.FormatInt(pageID, 10)
}

// Get returns the cached tokens for a page. An entry built from other
// defaults is a miss.
func (c *PageTokenCache) Get(ctx context.Context, pageID int64) (*model.PageTokens, bool) {
	pt, ok := c.typed.Get(ctx, PageKey(c.version, pageID))
	if !ok || pt.DefaultsVersion != c.version {
		return nil, false
	}
	return pt, true
}

// GetOrResolve returns cached tokens or resolves and caches them. A failed
// store does not fail the call.
func (c *PageTokenCache) GetOrResolve(ctx context.Context, pageID int64, resolve func() (*model.PageTokens, error)) (*model.PageTokens, bool, error) {
	if pt, ok := c.Get(ctx, pageID); ok {
		return pt, true, nil
	}
	pt, err := resolve()
	if err != nil {
		return nil, false, err
	}
	_ = c.typed.Set(ctx, PageKey(c.version, pageID), pt)
	return pt, false, nil
}

// InvalidatePage drops the entry for one page.
func (c *PageTokenCache) InvalidatePage(ctx context.Context, pageID int64) error {
	return c.typed.Delete(ctx, PageKey(c.version, pageID))
}

// InvalidateAll drops every page entry, whatever its defaults version.
func (c *PageTokenCache) InvalidateAll(ctx context.Context) error {
	return c.typed.DeleteByPrefix(ctx, pageTokensPrefix)
}
