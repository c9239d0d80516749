// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/tokens"
	"github.com/olegiv/castpage/internal/util"
)

// History actions record which operation produced a snapshot.
const (
	HistoryActionSave     = "save"
	HistoryActionPatch    = "patch"
	HistoryActionRollback = "rollback"
	HistoryActionClear    = "clear"
)

// HistoryEntry is one immutable snapshot of a page's override document.
type HistoryEntry struct {
	ID        string      `json:"id"`
	PageID    int64       `json:"page_id"`
	Overrides tokens.Tree `json:"overrides"`
	Action    string      `json:"action"`
	CreatedBy *int64      `json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// HistoryEntryFromStore converts a stored history row. An unreadable
// snapshot decodes to an empty tree.
func HistoryEntryFromStore(h store.TokenOverrideHistory) HistoryEntry {
	e := HistoryEntry{
		ID:        h.ID,
		PageID:    h.PageID,
		Overrides: OverridesFromText(h.Overrides),
		Action:    h.Action,
		CreatedAt: h.CreatedAt,
	}
	e.CreatedBy = util.PtrFromNullInt64(h.CreatedBy)
	return e
}

// OverridesFromText decodes a stored override document. Anything that is
// not a JSON object reads as no overrides.
func OverridesFromText(s string) tokens.Tree {
	if t := tokens.DecodeGroup(s); t != nil {
		return t
	}
	return tokens.Tree{}
}

// PageTokens is everything a renderer or editor needs for one page.
type PageTokens struct {
	PageID          int64               `json:"page_id"`
	Theme           *ThemeSummary       `json:"theme"`
	Overrides       tokens.Tree         `json:"overrides"`
	Resolved        tokens.Bundle       `json:"resolved"`
	Variables       tokens.Variables    `json:"variables"`
	Legacy          tokens.LegacyFields `json:"legacy"`
	ETag            string              `json:"etag"`
	DefaultsVersion string              `json:"defaults_version"`
}

// ThemeSummary identifies the theme a page resolved against.
type ThemeSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Scope    string `json:"scope"`
	Selected bool   `json:"selected"`
}

// Summary returns the summary of t. selected is false when the theme was
// chosen by fallback rather than by the page.
func (t Theme) Summary(selected bool) *ThemeSummary {
	return &ThemeSummary{ID: t.ID, Name: t.Name, Slug: t.Slug, Scope: t.Scope, Selected: selected}
}
