// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/tokens"
)

func samplePageTokens(pageID int64) *model.PageTokens {
	b := tokens.ResolveAll(tokens.Default())
	vars := tokens.Emit(b)
	return &model.PageTokens{
		PageID:          pageID,
		Overrides:       tokens.Tree{"semantic": tokens.Tree{"accent": tokens.Tree{"primary": "#ff00aa"}}},
		Resolved:        b,
		Variables:       vars,
		ETag:            vars.ETag(),
		DefaultsVersion: tokens.DefaultVersion,
	}
}

func TestPageTokenCache_RoundTrip(t *testing.T) {
	c := NewPageTokenCache(newTestMemoryCache(t, 0), time.Minute)
	ctx := context.Background()

	calls := 0
	resolve := func() (*model.PageTokens, error) {
		calls++
		return samplePageTokens(4), nil
	}

	first, hit, err := c.GetOrResolve(ctx, 4, resolve)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrResolve(ctx, 4, resolve)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)

	assert.Equal(t, first.ETag, second.ETag)
	assert.Equal(t, first.Variables, second.Variables)
	v, ok := second.Overrides.Lookup("semantic.accent.primary")
	assert.True(t, ok)
	assert.Equal(t, "#ff00aa", v)
}

func TestPageTokenCache_Invalidate(t *testing.T) {
	c := NewPageTokenCache(newTestMemoryCache(t, 0), time.Minute)
	ctx := context.Background()
	resolve := func(id int64) func() (*model.PageTokens, error) {
		return func() (*model.PageTokens, error) { return samplePageTokens(id), nil }
	}

	_, _, _ = c.GetOrResolve(ctx, 1, resolve(1))
	_, _, _ = c.GetOrResolve(ctx, 2, resolve(2))

	require.NoError(t, c.InvalidatePage(ctx, 1))
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok, "page 1 should be invalidated")
	_, ok = c.Get(ctx, 2)
	assert.True(t, ok, "page 2 should survive")

	require.NoError(t, c.InvalidateAll(ctx))
	_, ok = c.Get(ctx, 2)
	assert.False(t, ok, "page 2 should be invalidated")
}

func TestPageTokenCache_ResolveError(t *testing.T) {
	c := NewPageTokenCache(newTestMemoryCache(t, 0), time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrResolve(context.Background(), 9, func() (*model.PageTokens, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := c.Get(context.Background(), 9)
	assert.False(t, ok)
}

func TestPageKey(t *testing.T) {
	assert.Equal(t, "tokens:page:2025.3:42", PageKey("2025.3", 42))
	assert.NotEqual(t, PageKey("2025.3", 42), PageKey("2026.1", 42))
}

func TestPageTokenCache_DefaultsVersionChange(t *testing.T) {
	backend := newTestMemoryCache(t, 0)
	ctx := context.Background()

	old := newPageTokenCache(backend, time.Minute, "2024.1")
	_, _, err := old.GetOrResolve(ctx, 7, func() (*model.PageTokens, error) {
		pt := samplePageTokens(7)
		pt.DefaultsVersion = "2024.1"
		return pt, nil
	})
	require.NoError(t, err)
	_, ok := old.Get(ctx, 7)
	require.True(t, ok)

	current := NewPageTokenCache(backend, time.Minute)
	_, ok = current.Get(ctx, 7)
	assert.False(t, ok, "entries from older defaults must not be served")

	calls := 0
	pt, hit, err := current.GetOrResolve(ctx, 7, func() (*model.PageTokens, error) {
		calls++
		return samplePageTokens(7), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, tokens.DefaultVersion, pt.DefaultsVersion)

	require.NoError(t, current.InvalidateAll(ctx))
	_, ok = old.Get(ctx, 7)
	assert.False(t, ok, "InvalidateAll drops every version")
}

func TestPageTokenCache_VersionMismatchIsMiss(t *testing.T) {
	backend := newTestMemoryCache(t, 0)
	c := NewPageTokenCache(backend, time.Minute)
	ctx := context.Background()

	stale := samplePageTokens(3)
	stale.DefaultsVersion = "1999.1"
	require.NoError(t, c.typed.Set(ctx, PageKey(tokens.DefaultVersion, 3), stale))

	_, ok := c.Get(ctx, 3)
	assert.False(t, ok)
}
