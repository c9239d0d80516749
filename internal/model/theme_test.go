// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"

	"github.com/olegiv/castpage/internal/store"
)

func TestThemeFromStore_Structured(t *testing.T) {
	th := ThemeFromStore(store.Theme{
		ID:          3,
		Name:        "Studio",
		Slug:        "studio",
		Scope:       ThemeScopeSystem,
		ColorTokens: sql.NullString{String: `{"accent":{"primary":"#abcdef"}}`, Valid: true},
		ShapeTokens: sql.NullString{String: `[1,2]`, Valid: true},
	})

	if !th.IsSystem() {
		t.Error("IsSystem() = false, want true")
	}
	if _, ok := th.Tokens["color"]; !ok {
		t.Error("decoded color group missing")
	}
	if len(th.Malformed) != 1 || th.Malformed[0] != "shape" {
		t.Errorf("Malformed = %v, want [shape]", th.Malformed)
	}

	v, ok := th.Layer().Lookup("semantic.accent.primary")
	if !ok || v != "#abcdef" {
		t.Errorf("layer semantic.accent.primary = %v, %v; want #abcdef", v, ok)
	}
}

func TestThemeFromStore_LegacyOnly(t *testing.T) {
	th := ThemeFromStore(store.Theme{
		Name:         "Midnight",
		Scope:        ThemeScopeUser,
		OwnerID:      sql.NullInt64{Int64: 7, Valid: true},
		PrimaryColor: "#111111",
		AccentColor:  "#222222",
	})

	layer := th.Layer()
	if v, _ := layer.Lookup("semantic.accent.primary"); v != "#222222" {
		t.Errorf("accent.primary = %v, want #222222", v)
	}
	if v, _ := layer.Lookup("semantic.accent.secondary"); v != "#111111" {
		t.Errorf("accent.secondary = %v, want #111111", v)
	}
	if th.OwnerID == nil || *th.OwnerID != 7 {
		t.Errorf("OwnerID = %v, want 7", th.OwnerID)
	}
}

func TestThemeOwnership(t *testing.T) {
	owner := int64(7)
	userTheme := Theme{Scope: ThemeScopeUser, OwnerID: &owner}
	systemTheme := Theme{Scope: ThemeScopeSystem}

	tests := []struct {
		name        string
		theme       Theme
		actor       Actor
		wantOwned   bool
		wantVisible bool
	}{
		{"owner", userTheme, Actor{UserID: 7}, true, true},
		{"stranger", userTheme, Actor{UserID: 8}, false, false},
		{"admin", userTheme, Actor{UserID: 1, Admin: true}, true, true},
		{"system for user", systemTheme, Actor{UserID: 7}, false, true},
		{"system for admin", systemTheme, Actor{UserID: 1, Admin: true}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.theme.OwnedBy(tt.actor); got != tt.wantOwned {
				t.Errorf("OwnedBy() = %v, want %v", got, tt.wantOwned)
			}
			if got := tt.theme.VisibleTo(tt.actor); got != tt.wantVisible {
				t.Errorf("VisibleTo() = %v, want %v", got, tt.wantVisible)
			}
		})
	}
}

func TestHistoryEntryFromStore(t *testing.T) {
	e := HistoryEntryFromStore(store.TokenOverrideHistory{
		ID:        "abc",
		PageID:    2,
		Overrides: `{"semantic":{"accent":{"primary":"#ff00aa"}}}`,
		Action:    HistoryActionSave,
		CreatedBy: sql.NullInt64{Int64: 5, Valid: true},
	})

	if v, _ := e.Overrides.Lookup("semantic.accent.primary"); v != "#ff00aa" {
		t.Errorf("overrides = %v", e.Overrides)
	}
	if e.CreatedBy == nil || *e.CreatedBy != 5 {
		t.Errorf("CreatedBy = %v, want 5", e.CreatedBy)
	}

	broken := HistoryEntryFromStore(store.TokenOverrideHistory{Overrides: "not json"})
	if broken.Overrides == nil || len(broken.Overrides) != 0 {
		t.Errorf("broken overrides = %v, want empty tree", broken.Overrides)
	}
}

func TestValidThemeScope(t *testing.T) {
	for _, s := range []string{"system", "user", "all"} {
		if !ValidThemeScope(s) {
			t.Errorf("ValidThemeScope(%q) = false", s)
		}
	}
	if ValidThemeScope("public") {
		t.Error(`ValidThemeScope("public") = true`)
	}
}
