// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/tokens"
)

// CSSSelector is the selector used for emitted page variables.
const CSSSelector = ":root"

// Current returns the resolved tokens for a page, served from the cache
// when possible.
func (s *Service) Current(ctx context.Context, actor model.Actor, pageID int64) (*model.PageTokens, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}

	resolve := func() (*model.PageTokens, error) {
		return s.resolvePage(ctx, p, model.OverridesFromText(p.TokenOverrides))
	}
	if s.cache == nil {
		tokenResolutionsTotal.WithLabelValues("none").Inc()
		return resolve()
	}

	pt, hit, err := s.cache.GetOrResolve(ctx, p.ID, resolve)
	if err != nil {
		return nil, err
	}
	if hit {
		tokenResolutionsTotal.WithLabelValues("hit").Inc()
	} else {
		tokenResolutionsTotal.WithLabelValues("miss").Inc()
	}
	return pt, nil
}

// Preview resolves a page against an unsaved override tree. Nothing is
// persisted or cached.
func (s *Service) Preview(ctx context.Context, actor model.Actor, pageID int64, overrides tokens.Tree) (*model.PageTokens, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}
	tokenResolutionsTotal.WithLabelValues("preview").Inc()
	return s.resolvePage(ctx, p, tokens.Merge(tokens.Tree{}, overrides))
}

// ResolvePath traces a single path through the page's composed bundle.
func (s *Service) ResolvePath(ctx context.Context, actor model.Actor, pageID int64, path string) (tokens.Resolution, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return tokens.Resolution{}, err
	}
	b, _, _, err := s.compose(ctx, p, model.OverridesFromText(p.TokenOverrides))
	if err != nil {
		return tokens.Resolution{}, err
	}
	return tokens.NewResolver(b).Trace(path), nil
}

// CSS returns the page's variables as a declaration block and its ETag.
func (s *Service) CSS(ctx context.Context, actor model.Actor, pageID int64) (string, string, error) {
	pt, err := s.Current(ctx, actor, pageID)
	if err != nil {
		return "", "", err
	}
	return pt.Variables.CSS(CSSSelector), pt.ETag, nil
}

// resolvePage runs defaults, theme and overrides through merge, resolution
// and emission.
func (s *Service) resolvePage(ctx context.Context, p store.Page, overrides tokens.Tree) (*model.PageTokens, error) {
	composed, th, selected, err := s.compose(ctx, p, overrides)
	if err != nil {
		return nil, err
	}

	resolved := tokens.ResolveAll(composed)
	vars := tokens.Emit(resolved)
	pt := &model.PageTokens{
		PageID:          p.ID,
		Overrides:       overrides,
		Resolved:        resolved,
		Variables:       vars,
		Legacy:          tokens.EmitLegacy(resolved),
		ETag:            vars.ETag(),
		DefaultsVersion: tokens.DefaultVersion,
	}
	if th != nil {
		pt.Theme = th.Summary(selected)
	}
	return pt, nil
}

// compose merges defaults, the page's active theme and overrides without
// resolving references.
func (s *Service) compose(ctx context.Context, p store.Page, overrides tokens.Tree) (tokens.Bundle, *model.Theme, bool, error) {
	th, selected, err := s.activeTheme(ctx, p)
	if err != nil {
		return tokens.Bundle{}, nil, false, err
	}

	var layer tokens.Tree
	if th != nil {
		for _, group := range th.Malformed {
			malformedGroupsTotal.WithLabelValues(group).Inc()
			s.logger.Warn("ignoring malformed theme token group",
				"category", model.EventCategoryTokens, "theme_id", th.ID, "group", group, "page_id", p.ID)
		}
		layer = th.Layer()
	}
	return tokens.MergeBundle(tokens.MergeBundle(tokens.Default(), layer), overrides), th, selected, nil
}

// activeTheme picks the page's theme: the selected one, else the first
// system theme, else the owner's first theme. selected reports whether the
// page chose it. A nil theme means defaults only.
func (s *Service) activeTheme(ctx context.Context, p store.Page) (*model.Theme, bool, error) {
	if p.ThemeID.Valid {
		t, err := s.queries.GetThemeByID(ctx, p.ThemeID.Int64)
		switch {
		case err == nil:
			th := model.ThemeFromStore(t)
			return &th, true, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, false, fmt.Errorf("loading theme %d: %w", p.ThemeID.Int64, err)
		}
	}

	fallbacks := []func() (store.Theme, error){
		func() (store.Theme, error) { return s.queries.GetFirstSystemTheme(ctx) },
		func() (store.Theme, error) { return s.queries.GetFirstUserTheme(ctx, p.OwnerID) },
	}
	for _, load := range fallbacks {
		t, err := load()
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("loading fallback theme: %w", err)
		}
		th := model.ThemeFromStore(t)
		return &th, false, nil
	}
	return nil, false, nil
}
