// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_NamesAndValues(t *testing.T) {
	vars := Emit(ResolveAll(Default())).Map()

	tests := map[string]string{
		"--core-color-accent-primary":     "#0066ff",
		"--core-space-md":                 "16px",
		"--core-shape-radius-none":        "0",
		"--core-type-weight-bold":         "700",
		"--core-type-line-height-normal":  "1.5",
		"--semantic-focus-ring":           "#0066ff",
		"--component-button-padding-x":    "16px",
		"--component-episode-list-meta":   "#6b7280",
		"--component-body-size":           "16px",
		"--core-color-neutral-0":          "#ffffff",
		"--core-motion-duration-fast":     "120ms",
		"--semantic-accent-highlight":     "#ff6b35",
	}
	for name, want := range tests {
		got, ok := vars[name]
		if !ok {
			t.Errorf("variable %s missing", name)
			continue
		}
		if got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestEmit_SortedAndDeterministic(t *testing.T) {
	first := Emit(ResolveAll(Default()))
	second := Emit(ResolveAll(Default()))

	assert.Equal(t, first, second)
	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool { return first[i].Name < first[j].Name }))
}

func TestEmit_AccentGradient(t *testing.T) {
	vars := Emit(ResolveAll(Default())).Map()

	assert.Equal(t, "linear-gradient(135deg, #0066ff 0%, #7c3aed 100%)", vars["--gradient-accent"])
}

func TestEmit_AccentGradientNeedsBothStops(t *testing.T) {
	b := Bundle{Semantic: Tree{"accent": Tree{"primary": "#fff"}}}

	_, ok := Emit(b).Map()["--gradient-accent"]
	assert.False(t, ok)
}

func TestEmit_PageGradient(t *testing.T) {
	tests := []struct {
		name  string
		angle any
		want  string
	}{
		{"default angle", nil, "linear-gradient(135deg, #000, #fff)"},
		{"numeric angle", 90.0, "linear-gradient(90deg, #000, #fff)"},
		{"string angle", "to bottom", "linear-gradient(to bottom, #000, #fff)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gradient := Tree{"from": "#000", "to": "#fff"}
			if tt.angle != nil {
				gradient["angle"] = tt.angle
			}
			b := Bundle{Component: Tree{"page": Tree{"gradient": gradient}}}

			assert.Equal(t, tt.want, Emit(b).Map()["--page-background-gradient"])
		})
	}
}

func TestEmit_SkipsUnrenderableLeaves(t *testing.T) {
	b := Bundle{Core: Tree{
		"keep":  "x",
		"empty": []any{},
		"clear": Clear,
		"list":  []any{"Inter", "sans-serif"},
	}}

	vars := Emit(b).Map()

	assert.Equal(t, map[string]string{"--core-keep": "x", "--core-list": "Inter, sans-serif"}, vars)
}

func TestKebab(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"paddingX", "padding-x"},
		{"episodeList", "episode-list"},
		{"lineHeight", "line-height"},
		{"primary", "primary"},
		{"900", "900"},
		{"with space", "with-space"},
		{"_private", "private"},
	}

	for _, tt := range tests {
		if got := kebab(tt.in); got != tt.want {
			t.Errorf("kebab(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsLengthSegment(t *testing.T) {
	tests := []struct {
		seg  string
		want bool
	}{
		{"space", true},
		{"scale", true},
		{"radius", true},
		{"paddingX", true},
		{"padding-y", true},
		{"marginTop", true},
		{"maxWidth", true},
		{"fontSize", true},
		{"gapY", true},
		{"scaleFactor", false},
		{"sizeRatio", false},
		{"spaceship", false},
		{"lineHeight", false},
		{"weight", false},
		{"x", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isLengthSegment(tt.seg), tt.seg)
	}
}

func TestEmit_UnitlessRatios(t *testing.T) {
	vars := Emit(Bundle{Core: Tree{
		"motion": Tree{"scaleFactor": 1.05},
		"layout": Tree{"sizeRatio": 2, "maxWidth": 720},
	}}).Map()

	assert.Equal(t, "1.05", vars["--core-motion-scale-factor"])
	assert.Equal(t, "2", vars["--core-layout-size-ratio"])
	assert.Equal(t, "720px", vars["--core-layout-max-width"])
}

func TestEmit_NameCollisions(t *testing.T) {
	tests := []struct {
		name   string
		bundle Bundle
		want   string
	}{
		{
			name:   "camel and kebab keys",
			bundle: Bundle{Component: Tree{"button": Tree{"paddingX": 10, "padding-x": 20}}},
			want:   "20px",
		},
		{
			name: "different parents",
			bundle: Bundle{Component: Tree{
				"button":         Tree{"padding-x": 1},
				"button-padding": Tree{"x": 2},
			}},
			want: "2px",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				vars := Emit(tt.bundle)
				count := 0
				for _, v := range vars {
					if v.Name == "--component-button-padding-x" {
						count++
						assert.Equal(t, tt.want, v.Value)
					}
				}
				require.Equal(t, 1, count)
			}
		})
	}
}

func TestVariables_CSS(t *testing.T) {
	vars := Variables{
		{Name: "--a", Value: "1"},
		{Name: "--b", Value: "#fff"},
	}

	assert.Equal(t, ":root {\n  --a: 1;\n  --b: #fff;\n}\n", vars.CSS(""))
	assert.True(t, strings.HasPrefix(vars.CSS(".page-42"), ".page-42 {"))
}

func TestVariables_ETag(t *testing.T) {
	a := Variables{{Name: "--a", Value: "1"}}
	b := Variables{{Name: "--a", Value: "2"}}

	require.Len(t, a.ETag(), 34)
	assert.Equal(t, a.ETag(), Variables{{Name: "--a", Value: "1"}}.ETag())
	assert.NotEqual(t, a.ETag(), b.ETag())
}

func TestEmitLegacy(t *testing.T) {
	resolved := Compose(Default(), nil, Tree{
		"semantic": Tree{"accent": Tree{"primary": "#ff00aa"}},
	})

	got := EmitLegacy(resolved)

	assert.Equal(t, LegacyFields{
		PrimaryColor:   "#7c3aed",
		AccentColor:    "#ff00aa",
		HeadingFont:    "Inter, system-ui, sans-serif",
		BodyFont:       "Inter, system-ui, sans-serif",
		PageBackground: "#ffffff",
	}, got)
}

func TestEmitLegacy_LegacyThemeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		legacy LegacyFields
	}{
		{"primary and accent", LegacyFields{PrimaryColor: "#111111", AccentColor: "#222222"}},
		{"fonts and background", LegacyFields{PrimaryColor: "#0f172a", AccentColor: "#38bdf8", HeadingFont: "Lora", BodyFont: "Lato", PageBackground: "#020617"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := Compose(Default(), ThemeLayer(ThemeSource{Legacy: tt.legacy}), nil)
			got := EmitLegacy(resolved)

			assert.Equal(t, tt.legacy.PrimaryColor, got.PrimaryColor)
			assert.Equal(t, tt.legacy.AccentColor, got.AccentColor)
			assert.Empty(t, got.SecondaryColor)
			if tt.legacy.HeadingFont != "" {
				assert.Equal(t, tt.legacy.HeadingFont, got.HeadingFont)
				assert.Equal(t, tt.legacy.BodyFont, got.BodyFont)
				assert.Equal(t, tt.legacy.PageBackground, got.PageBackground)
			}
		})
	}
}
