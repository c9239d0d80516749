// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/tokens"
)

// Save replaces the page's override document with tree and records it in
// the history.
func (s *Service) Save(ctx context.Context, actor model.Actor, pageID int64, tree tokens.Tree) (tokens.Tree, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, actor, p.ID, tokens.Merge(tokens.Tree{}, tree), model.HistoryActionSave)
}

// Patch merges patch into the current overrides and saves the result. Keys
// set to tokens.Clear are removed so the value is inherited again.
func (s *Service) Patch(ctx context.Context, actor model.Actor, pageID int64, patch tokens.Tree) (tokens.Tree, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}
	next := tokens.Merge(model.OverridesFromText(p.TokenOverrides), patch)
	return s.persist(ctx, actor, p.ID, next, model.HistoryActionPatch)
}

// Rollback restores the overrides recorded in a history entry of the same
// page. The restore is itself recorded, so history only grows.
func (s *Service) Rollback(ctx context.Context, actor model.Actor, pageID int64, historyID string) (tokens.Tree, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}

	h, err := s.queries.GetTokenOverrideHistory(ctx, store.GetTokenOverrideHistoryParams{ID: historyID, PageID: p.ID})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading history entry: %w", err)
	}

	return s.persist(ctx, actor, p.ID, model.OverridesFromText(h.Overrides), model.HistoryActionRollback)
}

// Clear removes all overrides from the page.
func (s *Service) Clear(ctx context.Context, actor model.Actor, pageID int64) error {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return err
	}
	_, err = s.persist(ctx, actor, p.ID, tokens.Tree{}, model.HistoryActionClear)
	return err
}

// History returns the page's snapshots, newest first.
func (s *Service) History(ctx context.Context, actor model.Actor, pageID int64) ([]model.HistoryEntry, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.ListTokenOverrideHistory(ctx, store.ListTokenOverrideHistoryParams{
		PageID: p.ID,
		Limit:  int64(s.historyLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.HistoryEntryFromStore(r))
	}
	return entries, nil
}

// persist writes tree as the current document, appends a snapshot and
// prunes the history. The statements are not wrapped in a transaction; an
// over-long history is trimmed by the next write.
func (s *Service) persist(ctx context.Context, actor model.Actor, pageID int64, tree tokens.Tree, action string) (tokens.Tree, error) {
	if tree == nil {
		tree = tokens.Tree{}
	}
	doc, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encoding overrides: %w", err)
	}
	now := s.now()

	if err := s.queries.UpdatePageTokenOverrides(ctx, store.UpdatePageTokenOverridesParams{
		TokenOverrides: string(doc),
		UpdatedAt:      now,
		ID:             pageID,
	}); err != nil {
		return nil, fmt.Errorf("saving overrides: %w", err)
	}
	s.invalidatePage(ctx, pageID)
	overrideSavesTotal.WithLabelValues(action).Inc()

	var createdBy sql.NullInt64
	if actor.UserID > 0 {
		createdBy = sql.NullInt64{Int64: actor.UserID, Valid: true}
	}
	if _, err := s.queries.CreateTokenOverrideHistory(ctx, store.CreateTokenOverrideHistoryParams{
		ID:        uuid.NewString(),
		PageID:    pageID,
		Overrides: string(doc),
		Action:    action,
		CreatedBy: createdBy,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("recording history: %w", err)
	}

	pruned, err := s.queries.PruneTokenOverrideHistory(ctx, store.PruneTokenOverrideHistoryParams{
		PageID: pageID,
		Keep:   int64(s.historyLimit),
	})
	if err != nil {
		// The override is saved; the next write prunes again.
		s.logger.Warn("history prune failed", "category", model.EventCategoryHistory, "page_id", pageID, "error", err)
	} else if pruned > 0 {
		historyPrunedTotal.Add(float64(pruned))
	}

	s.logger.Debug("page overrides saved", "page_id", pageID, "action", action, "user_id", actor.UserID)
	return tree, nil
}
