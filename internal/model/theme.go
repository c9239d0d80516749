// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"

	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/tokens"
	"github.com/olegiv/castpage/internal/util"
)

// Theme scopes. ThemeScopeAll is a list filter only; stored themes are
// either system or user.
const (
	ThemeScopeSystem = "system"
	ThemeScopeUser   = "user"
	ThemeScopeAll    = "all"
)

// ValidThemeScope reports whether s is usable as a list filter.
func ValidThemeScope(s string) bool {
	switch s {
	case ThemeScopeSystem, ThemeScopeUser, ThemeScopeAll:
		return true
	}
	return false
}

// Theme is a named, reusable set of token groups in either schema
// generation.
type Theme struct {
	ID        int64                  `json:"id"`
	Name      string                 `json:"name"`
	Slug      string                 `json:"slug"`
	Scope     string                 `json:"scope"`
	OwnerID   *int64                 `json:"owner_id,omitempty"`
	Tokens    map[string]tokens.Tree `json:"tokens"`
	Legacy    tokens.LegacyFields    `json:"legacy"`
	Malformed []string               `json:"malformed_groups,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`

	groups tokens.TokenGroups
}

// ThemeFromStore converts a stored theme. Token groups are decoded leniently;
// unusable groups are listed in Malformed and otherwise treated as absent.
func ThemeFromStore(t store.Theme) Theme {
	groups := tokens.TokenGroups{
		Color:      nullText(t.ColorTokens),
		Typography: nullText(t.TypographyTokens),
		Spacing:    nullText(t.SpacingTokens),
		Shape:      nullText(t.ShapeTokens),
		Motion:     nullText(t.MotionTokens),
	}
	th := Theme{
		ID:    t.ID,
		Name:  t.Name,
		Slug:  t.Slug,
		Scope: t.Scope,
		Legacy: tokens.LegacyFields{
			PrimaryColor:   t.PrimaryColor,
			SecondaryColor: t.SecondaryColor,
			AccentColor:    t.AccentColor,
			HeadingFont:    t.HeadingFont,
			BodyFont:       t.BodyFont,
			PageBackground: t.PageBackground,
		},
		Tokens:    groups.Decoded(),
		Malformed: groups.Malformed(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		groups:    groups,
	}
	th.OwnerID = util.PtrFromNullInt64(t.OwnerID)
	return th
}

// nullText returns nil for NULL so the group reads as absent.
func nullText(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

// IsSystem reports whether the theme is built in and read-only.
func (t Theme) IsSystem() bool {
	return t.Scope == ThemeScopeSystem
}

// OwnedBy reports whether a may modify the theme. System themes belong to
// nobody.
func (t Theme) OwnedBy(a Actor) bool {
	if t.IsSystem() || t.OwnerID == nil {
		return false
	}
	return a.CanAccess(*t.OwnerID)
}

// VisibleTo reports whether a may read or select the theme.
func (t Theme) VisibleTo(a Actor) bool {
	return t.IsSystem() || t.OwnedBy(a)
}

// Source returns the token-bearing part of the theme.
func (t Theme) Source() tokens.ThemeSource {
	return tokens.ThemeSource{Groups: t.groups, Legacy: t.Legacy}
}

// Layer returns the partial bundle the theme contributes over the defaults.
func (t Theme) Layer() tokens.Tree {
	return tokens.ThemeLayer(t.Source())
}
