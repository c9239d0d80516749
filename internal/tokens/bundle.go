// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

// Top-level bundle groups.
const (
	GroupCore      = "core"
	GroupSemantic  = "semantic"
	GroupComponent = "component"
)

// GroupNames lists the bundle groups in emission order.
var GroupNames = []string{GroupCore, GroupSemantic, GroupComponent}

// Bundle is a full token tree with exactly three top-level groups.
type Bundle struct {
	Core      Tree `json:"core"`
	Semantic  Tree `json:"semantic"`
	Component Tree `json:"component"`
}

// Group returns the named group, or nil for an unknown name.
func (b Bundle) Group(name string) Tree {
	switch name {
	case GroupCore:
		return b.Core
	case GroupSemantic:
		return b.Semantic
	case GroupComponent:
		return b.Component
	default:
		return nil
	}
}

// Tree returns the bundle as a single tree rooted at the group names.
// The groups are shared with b, not copied.
func (b Bundle) Tree() Tree {
	t := make(Tree, len(GroupNames))
	for _, name := range GroupNames {
		if g := b.Group(name); g != nil {
			t[name] = g
		}
	}
	return t
}

// Clone returns a deep copy of the bundle.
func (b Bundle) Clone() Bundle {
	return Bundle{
		Core:      b.Core.Clone(),
		Semantic:  b.Semantic.Clone(),
		Component: b.Component.Clone(),
	}
}

// Lookup returns the raw (unresolved) value at a dotted path.
func (b Bundle) Lookup(path string) (any, bool) {
	return b.Tree().Lookup(NormalizePath(path))
}

// BundleFromTree splits a rooted tree into a Bundle. Keys other than the
// three groups are ignored, as are groups that are not objects.
func BundleFromTree(t Tree) Bundle {
	group := func(name string) Tree {
		g, _ := asTree(t[name])
		return g
	}
	return Bundle{
		Core:      group(GroupCore),
		Semantic:  group(GroupSemantic),
		Component: group(GroupComponent),
	}
}
