// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBase() Tree {
	return Tree{
		"core": Tree{
			"color": Tree{
				"accent": Tree{"primary": "#0066ff", "secondary": "#7c3aed"},
			},
			"space": Tree{"sm": 8, "md": 16},
		},
		"semantic": Tree{
			"accent": Tree{"primary": "core.color.accent.primary"},
			"fonts":  []any{"Inter", "sans-serif"},
		},
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := sampleBase()
	before := base.Clone()
	overrides := Tree{
		"core": Tree{
			"color": Tree{"accent": Tree{"primary": "#ff0000"}},
			"space": Tree{"lg": 24},
		},
		"semantic": Tree{"fonts": []any{"Roboto"}},
	}
	overridesBefore := overrides.Clone()

	merged := Merge(base, overrides)

	assert.Equal(t, before, base, "base must not change")
	assert.Equal(t, overridesBefore, overrides, "overrides must not change")

	v, ok := merged.Lookup("core.color.accent.primary")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", v)

	// Mutating the result must not leak back into the base either.
	merged["core"].(Tree)["space"].(Tree)["sm"] = 1
	assert.Equal(t, 8, base["core"].(Tree)["space"].(Tree)["sm"])
}

func TestMerge_RecursesIntoGroups(t *testing.T) {
	merged := Merge(sampleBase(), Tree{
		"core": Tree{"color": Tree{"accent": Tree{"primary": "#111111"}}},
	})

	v, _ := merged.Lookup("core.color.accent.secondary")
	assert.Equal(t, "#7c3aed", v, "sibling keys survive a nested override")
	v, _ = merged.Lookup("core.space.md")
	assert.Equal(t, 16, v)
}

func TestMerge_ArraysReplaceOutright(t *testing.T) {
	merged := Merge(sampleBase(), Tree{"semantic": Tree{"fonts": []any{"Roboto"}}})

	v, _ := merged.Lookup("semantic.fonts")
	assert.Equal(t, []any{"Roboto"}, v)
}

func TestMerge_CreatesMissingGroups(t *testing.T) {
	merged := Merge(sampleBase(), Tree{"component": Tree{"button": Tree{"radius": 4}}})

	v, ok := merged.Lookup("component.button.radius")
	require.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestMerge_GroupReplacesLeaf(t *testing.T) {
	base := Tree{"page": Tree{"background": "#fff"}}
	merged := Merge(base, Tree{"page": Tree{"background": Tree{"from": "#000"}}})

	v, ok := merged.Lookup("page.background.from")
	require.True(t, ok)
	assert.Equal(t, "#000", v)
}

func TestMerge_EmptyGroupReplacesLeaf(t *testing.T) {
	base := Tree{"page": Tree{"background": "#fff"}}
	merged := Merge(base, Tree{"page": Tree{"background": Tree{}}})

	assert.Equal(t, Tree{"page": Tree{"background": Tree{}}}, merged)
	v, _ := base.Lookup("page.background")
	assert.Equal(t, "#fff", v, "base is untouched")
}

func TestMerge_EmptyGroupCreatedWhenAbsent(t *testing.T) {
	merged := Merge(Tree{"core": Tree{}}, Tree{"component": Tree{"card": Tree{}}})

	assert.Equal(t, Tree{"core": Tree{}, "component": Tree{"card": Tree{}}}, merged)
}

func TestMerge_NilIsUnset(t *testing.T) {
	merged := Merge(sampleBase(), Tree{"core": Tree{"space": Tree{"md": nil}}})

	v, ok := merged.Lookup("core.space.md")
	require.True(t, ok)
	assert.Equal(t, 16, v)
}

func TestMerge_ClearRemovesKey(t *testing.T) {
	merged := Merge(sampleBase(), Tree{"core": Tree{"space": Tree{"md": Clear}}})

	_, ok := merged.Lookup("core.space.md")
	assert.False(t, ok)
	v, _ := merged.Lookup("core.space.sm")
	assert.Equal(t, 8, v)
}

func TestMerge_ClearOnMissingKey(t *testing.T) {
	merged := Merge(Tree{}, Tree{"semantic": Tree{"accent": Tree{"primary": Clear}}})

	assert.Equal(t, Tree{"semantic": Tree{"accent": Tree{}}}, merged)
	assert.Zero(t, merged.LeafCount())
}

func TestMerge_Idempotent(t *testing.T) {
	cases := []struct {
		name      string
		overrides Tree
	}{
		{"leaf", Tree{"core": Tree{"space": Tree{"md": 20}}}},
		{"array", Tree{"semantic": Tree{"fonts": []any{"Mono"}}}},
		{"new group", Tree{"component": Tree{"card": Tree{"padding": "space.md"}}}},
		{"clear", Tree{"core": Tree{"color": Clear}}},
		{"nil", Tree{"semantic": nil}},
		{"group over leaf", Tree{"semantic": Tree{"accent": Tree{"primary": Tree{"light": "#fff"}}}}},
		{"empty group", Tree{"component": Tree{"card": Tree{}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			once := Merge(sampleBase(), tc.overrides)
			twice := Merge(once, tc.overrides)
			assert.Equal(t, once, twice)
		})
	}
}

func TestMergeBundle_LayerPrecedence(t *testing.T) {
	defaults := Bundle{
		Core: Tree{"color": Tree{"accent": Tree{"primary": "#0066ff"}}},
	}
	theme := Tree{"semantic": Tree{"accent": Tree{"primary": "core.color.accent.primary"}}}
	page := Tree{"semantic": Tree{"accent": Tree{"primary": "#ff00aa"}}}

	resolved := Compose(defaults, theme, page)

	v, ok := resolved.Lookup("semantic.accent.primary")
	require.True(t, ok)
	assert.Equal(t, "#ff00aa", v)
}

func TestCompose_ThemeAliasResolvesThroughCore(t *testing.T) {
	defaults := Bundle{
		Core: Tree{"color": Tree{"accent": Tree{"primary": "#0066ff"}}},
	}
	theme := Tree{"semantic": Tree{"accent": Tree{"primary": "core.color.accent.primary"}}}

	resolved := Compose(defaults, theme, nil)

	v, _ := resolved.Lookup("semantic.accent.primary")
	assert.Equal(t, "#0066ff", v)
}

func TestMergeBundle_IgnoresUnknownRoots(t *testing.T) {
	b := MergeBundle(Default(), Tree{"bogus": Tree{"x": 1}})

	_, ok := b.Tree()["bogus"]
	assert.False(t, ok)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Core["color"].(Tree)["accent"].(Tree)["primary"] = "#000000"

	b := Default()
	v, _ := b.Lookup("core.color.accent.primary")
	assert.Equal(t, "#0066ff", v)
}
