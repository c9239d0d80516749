// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLegacyTheme_FlatFields(t *testing.T) {
	tests := []struct {
		name          string
		legacy        LegacyFields
		wantPrimary   any
		wantSecondary any
	}{
		{
			name:          "accent and primary",
			legacy:        LegacyFields{PrimaryColor: "#111111", AccentColor: "#ff00aa"},
			wantPrimary:   "#ff00aa",
			wantSecondary: "#111111",
		},
		{
			name:        "primary only",
			legacy:      LegacyFields{PrimaryColor: "#111111"},
			wantPrimary: "#111111",
		},
		{
			name:        "accent only",
			legacy:      LegacyFields{AccentColor: "#222222"},
			wantPrimary: "#222222",
		},
		{
			name:   "whitespace is empty",
			legacy: LegacyFields{PrimaryColor: "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapLegacyTheme(ThemeSource{Legacy: tt.legacy})

			p, _ := got.Lookup("accent.primary")
			s, _ := got.Lookup("accent.secondary")
			assert.Equal(t, tt.wantPrimary, p)
			assert.Equal(t, tt.wantSecondary, s)
		})
	}
}

func TestMapLegacyTheme_NothingUsableIsEmpty(t *testing.T) {
	got := MapLegacyTheme(ThemeSource{})

	assert.Empty(t, got)
}

func TestMapLegacyTheme_StructuredColorWins(t *testing.T) {
	src := ThemeSource{
		Groups: TokenGroups{
			Color: map[string]any{
				"accent": map[string]any{"primary": "#abcdef"},
				"text":   map[string]any{"muted": "#999999"},
				"border": map[string]any{"default": "#eeeeee"},
				"status": map[string]any{"error": "#ff0000"},
			},
		},
		Legacy: LegacyFields{PrimaryColor: "#111111", AccentColor: "#222222"},
	}

	got := MapLegacyTheme(src)

	want := Tree{
		"accent":  Tree{"primary": "#abcdef"},
		"text":    Tree{"secondary": "#999999"},
		"divider": Tree{"subtle": "#eeeeee"},
		"state":   Tree{"error": "#ff0000"},
	}
	assert.Equal(t, want, got)
}

func TestMapLegacyTheme_FallbackOrder(t *testing.T) {
	src := ThemeSource{Groups: TokenGroups{Color: `{"accent":{"highlight":"#h1","alt":"#a1"},"foreground":"#f0"}`}}

	got := MapLegacyTheme(src)

	p, _ := got.Lookup("accent.primary")
	s, _ := got.Lookup("accent.secondary")
	tp, _ := got.Lookup("text.primary")
	assert.Equal(t, "#h1", p)
	assert.Equal(t, "#a1", s)
	assert.Equal(t, "#f0", tp)
}

func TestMapLegacyTheme_MalformedColorFallsBackToFlat(t *testing.T) {
	cases := map[string]any{
		"array":       []any{"#fff"},
		"bad json":    "{not json",
		"json array":  `["#fff"]`,
		"number":      42.0,
		"empty group": map[string]any{},
	}

	for name, color := range cases {
		t.Run(name, func(t *testing.T) {
			var got Tree
			require.NotPanics(t, func() {
				got = MapLegacyTheme(ThemeSource{
					Groups: TokenGroups{Color: color},
					Legacy: LegacyFields{PrimaryColor: "#111111"},
				})
			})
			p, _ := got.Lookup("accent.primary")
			assert.Equal(t, "#111111", p)
		})
	}
}

func TestMapLegacyTheme_DoubleEncodedGroup(t *testing.T) {
	inner, err := json.Marshal(`{"accent":{"primary":"#00ff00"}}`)
	require.NoError(t, err)

	got := MapLegacyTheme(ThemeSource{Groups: TokenGroups{Color: json.RawMessage(inner)}})

	p, _ := got.Lookup("accent.primary")
	assert.Equal(t, "#00ff00", p)
}

func TestTokenGroups_Malformed(t *testing.T) {
	g := TokenGroups{
		Color:      `{"accent":{"primary":"#fff"}}`,
		Typography: "[1,2,3]",
		Spacing:    "",
		Shape:      "null",
		Motion:     "{oops",
	}

	assert.Equal(t, []string{ThemeGroupTypography, ThemeGroupMotion}, g.Malformed())

	decoded := g.Decoded()
	assert.Contains(t, decoded, ThemeGroupColor)
	assert.NotContains(t, decoded, ThemeGroupTypography)
	assert.NotContains(t, decoded, ThemeGroupSpacing)
}

func TestThemeLayer_Groups(t *testing.T) {
	src := ThemeSource{
		Groups: TokenGroups{
			Color:      map[string]any{"accent": map[string]any{"primary": "#abcdef"}},
			Typography: map[string]any{"family": map[string]any{"heading": "Georgia, serif"}},
			Spacing:    `{"md": 20}`,
			Shape:      map[string]any{"radius": map[string]any{"md": 2.0}},
		},
		Legacy: LegacyFields{HeadingFont: "Ignored", PageBackground: "#fafafa"},
	}

	layer := ThemeLayer(src)

	tests := map[string]any{
		"semantic.accent.primary":   "#abcdef",
		"core.type.family.heading":  "Georgia, serif",
		"core.space.md":             20.0,
		"core.shape.radius.md":      2.0,
		"component.page.background": "#fafafa",
	}
	for path, want := range tests {
		got, ok := layer.Lookup(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := layer.Lookup("core.motion")
	assert.False(t, ok)
}

func TestThemeLayer_LegacyFontsWithoutTypography(t *testing.T) {
	layer := ThemeLayer(ThemeSource{Legacy: LegacyFields{HeadingFont: "Lora", BodyFont: "Lato"}})

	h, _ := layer.Lookup("core.type.family.heading")
	b, _ := layer.Lookup("core.type.family.body")
	assert.Equal(t, "Lora", h)
	assert.Equal(t, "Lato", b)
}

func TestThemeLayer_ComposesOverDefaults(t *testing.T) {
	layer := ThemeLayer(ThemeSource{Groups: TokenGroups{Spacing: `{"md": 20}`}})

	resolved := Compose(Default(), layer, nil)

	v, _ := resolved.Lookup("component.button.paddingX")
	assert.Equal(t, 20.0, v)
	v, _ = resolved.Lookup("core.space.sm")
	assert.Equal(t, 8, v, "groups merge rather than replace")
}

func TestThemeLayer_EmptySourceIsEmpty(t *testing.T) {
	assert.Empty(t, ThemeLayer(ThemeSource{}))
}
