// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

import "strings"

// rootPrefixes are already-qualified path roots.
var rootPrefixes = []string{GroupCore + ".", GroupSemantic + ".", GroupComponent + "."}

// shorthandPrefixes expand bare primitive roots into core paths.
var shorthandPrefixes = []struct {
	short string
	full  string
}{
	{"color.", "core.color."},
	{"space.", "core.space."},
	{"type.", "core.type."},
}

// NormalizePath expands shorthand roots (color., space., type.) into their
// core equivalents. Qualified paths and anything unrecognised pass through.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	for _, p := range rootPrefixes {
		if strings.HasPrefix(path, p) {
			return path
		}
	}
	for _, s := range shorthandPrefixes {
		if strings.HasPrefix(path, s.short) {
			return s.full + strings.TrimPrefix(path, s.short)
		}
	}
	return path
}

// IsReference reports whether v looks like a path to another token.
func IsReference(v any) bool {
	s, ok := v.(string)
	return ok && strings.Contains(s, ".")
}

// Resolution describes how a single path was resolved.
type Resolution struct {
	Path     string   `json:"path"`
	Chain    []string `json:"chain"`
	Value    any      `json:"value"`
	Found    bool     `json:"found"`
	Cycle    bool     `json:"cycle,omitempty"`
	Dangling bool     `json:"dangling,omitempty"`
}

// Resolver follows references within one bundle.
type Resolver struct {
	tree  Tree
	limit int
}

// NewResolver prepares a resolver for b. The bundle must not be modified
// while the resolver is in use.
func NewResolver(b Bundle) *Resolver {
	t := b.Tree()
	return &Resolver{
		tree:  t,
		limit: t.LeafCount() + 1,
	}
}

// Resolve follows references starting at path and returns the last value it
// found. The value may still be a reference string when the chain ends in a
// cycle or a dangling path. ok is false only when path itself does not name a
// leaf.
func (r *Resolver) Resolve(path string) (any, bool) {
	res := r.Trace(path)
	return res.Value, res.Found
}

// Trace resolves path and records every normalized path it visited.
func (r *Resolver) Trace(path string) Resolution {
	res := Resolution{Path: path}
	visited := make(map[string]struct{}, 4)
	current := NormalizePath(path)

	// Each iteration visits a new path, so the loop is bounded by the number
	// of leaves; limit only makes the bound explicit.
	for step := 0; step < r.limit; step++ {
		if _, seen := visited[current]; seen {
			res.Cycle = true
			return res
		}
		visited[current] = struct{}{}

		v, ok := r.tree.Lookup(current)
		if !ok {
			res.Dangling = res.Found
			return res
		}
		if _, isGroup := asTree(v); isGroup {
			res.Dangling = res.Found
			return res
		}

		res.Chain = append(res.Chain, current)
		res.Value = v
		res.Found = true
		if !IsReference(v) {
			return res
		}
		current = NormalizePath(v.(string))
	}
	return res
}

// Resolve is a convenience wrapper for a single lookup.
func Resolve(b Bundle, path string) (any, bool) {
	return NewResolver(b).Resolve(path)
}

// ResolveAll returns a copy of b in which every leaf has been replaced by
// its resolved value. Lookups always run against the unresolved input.
func ResolveAll(b Bundle) Bundle {
	r := NewResolver(b)
	out := Bundle{}
	for _, name := range GroupNames {
		g := b.Group(name)
		if g == nil {
			continue
		}
		resolved := Tree{}
		g.Leaves(func(path string, v any) {
			if !IsReference(v) {
				resolved.Set(path, cloneValue(v))
				return
			}
			value, _ := r.Resolve(name + "." + path)
			resolved.Set(path, cloneValue(value))
		})
		switch name {
		case GroupCore:
			out.Core = resolved
		case GroupSemantic:
			out.Semantic = resolved
		case GroupComponent:
			out.Component = resolved
		}
	}
	return out
}
