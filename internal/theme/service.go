// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme composes page tokens from the built-in defaults, the page's
// theme and its overrides, and manages themes and the override history.
package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/castpage/internal/cache"
	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
)

// DefaultHistoryLimit is the number of override snapshots kept per page.
const DefaultHistoryLimit = 20

// Options configures a Service. Zero values select defaults; a nil Cache
// disables caching.
type Options struct {
	Cache        *cache.PageTokenCache
	Logger       *slog.Logger
	HistoryLimit int
}

// Service is the token engine's persistence-facing API.
type Service struct {
	db           *sql.DB
	queries      *store.Queries
	cache        *cache.PageTokenCache
	logger       *slog.Logger
	historyLimit int
	now          func() time.Time
}

// NewService creates a Service over db.
func NewService(db *sql.DB, opts Options) *Service {
	s := &Service{
		db:           db,
		queries:      store.New(db),
		cache:        opts.Cache,
		logger:       opts.Logger,
		historyLimit: opts.HistoryLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}
	return s
}

// HistoryLimit returns the number of snapshots kept per page.
func (s *Service) HistoryLimit() int {
	return s.historyLimit
}

// page loads a page the actor may access. Pages of other users read as
// missing.
func (s *Service) page(ctx context.Context, actor model.Actor, pageID int64) (store.Page, error) {
	var (
		p   store.Page
		err error
	)
	if actor.Admin {
		p, err = s.queries.GetPageByID(ctx, pageID)
	} else {
		p, err = s.queries.GetPageForOwner(ctx, store.GetPageForOwnerParams{ID: pageID, OwnerID: actor.UserID})
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.Page{}, ErrPageNotFound
	}
	if err != nil {
		return store.Page{}, fmt.Errorf("loading page %d: %w", pageID, err)
	}
	return p, nil
}

// invalidatePage drops cached tokens for one page. Cache failures are logged
// and otherwise ignored.
func (s *Service) invalidatePage(ctx context.Context, pageID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePage(ctx, pageID); err != nil {
		s.logger.Warn("cache invalidation failed", "category", model.EventCategoryCache, "page_id", pageID, "error", err)
	}
}

// invalidateAll drops cached tokens for every page.
func (s *Service) invalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", "category", model.EventCategoryCache, "error", err)
	}
}
