// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

// Merge deep-merges overrides onto a copy of base and returns the copy.
// Neither input is modified.
//
// Override values are tri-state:
//   - absent or nil: no opinion, the base value survives
//   - Clear: the key is removed from the result
//   - anything else: groups recurse (creating the group when the base has
//     none there), leaves and arrays replace outright
func Merge(base, overrides Tree) Tree {
	out := base.Clone()
	if out == nil {
		out = Tree{}
	}
	mergeInto(out, overrides)
	return out
}

// mergeInto applies src onto dst in place. dst must be owned by the caller.
func mergeInto(dst, src Tree) {
	for k, v := range src {
		if v == nil {
			continue
		}
		if IsClear(v) {
			delete(dst, k)
			continue
		}
		group, isGroup := asTree(v)
		if !isGroup {
			dst[k] = cloneValue(v)
			continue
		}

		child, exists := asTree(dst[k])
		if !exists {
			// Absent keys and leaves become an empty group first.
			child = Tree{}
			dst[k] = child
		}
		mergeInto(child, group)
	}
}

// MergeBundle layers a partial override tree (rooted at the group names) onto
// base and returns the new bundle.
func MergeBundle(base Bundle, overrides Tree) Bundle {
	return BundleFromTree(Merge(base.Tree(), overrides))
}

// Compose builds the resolved bundle for one page:
// defaults <- theme layer <- page overrides, then every reference resolved.
func Compose(defaults Bundle, themeLayer, overrides Tree) Bundle {
	merged := MergeBundle(MergeBundle(defaults, themeLayer), overrides)
	return ResolveAll(merged)
}
