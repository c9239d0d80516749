// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package tokens implements the design-token engine: the compiled-in default
// bundle, deep merging of override layers, reference resolution, the legacy
// theme mapper and flattening into style variables.
//
// Everything in this package is pure and in-memory. Persistence lives in
// internal/store and orchestration in internal/theme.
package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tree is a group of named token values. A value is a nested Tree, a string,
// a number, a []any of literals, or Clear (only inside a decoded patch).
type Tree map[string]any

// clearMarker is the type of the Clear sentinel.
type clearMarker struct{}

// MarshalJSON encodes Clear back to the null it was decoded from.
func (clearMarker) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Clear marks a patch key for removal from the document it is merged into,
// so the value is inherited from the layer below.
var Clear = clearMarker{}

// IsClear reports whether v is the Clear sentinel.
func IsClear(v any) bool {
	_, ok := v.(clearMarker)
	return ok
}

// asTree returns v as a Tree if it is a group.
func asTree(v any) (Tree, bool) {
	switch x := v.(type) {
	case Tree:
		return x, true
	case map[string]any:
		return Tree(x), true
	default:
		return nil, false
	}
}

// Clone returns a deep structural copy of t. A nil tree clones to nil.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if group, ok := asTree(v); ok {
		return group.Clone()
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i := range list {
			out[i] = cloneValue(list[i])
		}
		return out
	}
	return v
}

// Lookup returns the value at a dotted path.
func (t Tree) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var cur any = t
	for _, seg := range strings.Split(path, ".") {
		group, ok := asTree(cur)
		if !ok {
			return nil, false
		}
		cur, ok = group[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores v at a dotted path, creating intermediate groups and replacing
// any leaf that sits where a group is needed.
func (t Tree) Set(path string, v any) {
	segs := strings.Split(path, ".")
	group := t
	for _, seg := range segs[:len(segs)-1] {
		child, ok := asTree(group[seg])
		if !ok {
			child = Tree{}
			group[seg] = child
		}
		group = child
	}
	group[segs[len(segs)-1]] = v
}

// Leaves calls fn for every non-group value in path order. Keys are visited
// sorted so the walk is deterministic.
func (t Tree) Leaves(fn func(path string, v any)) {
	walkLeaves(t, "", fn)
}

func walkLeaves(t Tree, prefix string, fn func(path string, v any)) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if group, ok := asTree(t[k]); ok {
			walkLeaves(group, path, fn)
			continue
		}
		fn(path, t[k])
	}
}

// LeafCount returns the number of leaf values in t.
func (t Tree) LeafCount() int {
	n := 0
	t.Leaves(func(string, any) { n++ })
	return n
}

// UnmarshalJSON decodes a stored document. JSON null values are dropped, so a
// stored null never carries an opinion.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = normalizeMap(raw, false)
	return nil
}

// normalizeMap converts decoded JSON into Tree form. With patch set, null
// becomes Clear; otherwise null keys are dropped.
func normalizeMap(raw map[string]any, patch bool) Tree {
	if raw == nil {
		return nil
	}
	out := make(Tree, len(raw))
	for k, v := range raw {
		if v == nil {
			if patch {
				out[k] = Clear
			}
			continue
		}
		out[k] = normalizeValue(v, patch)
	}
	return out
}

func normalizeValue(v any, patch bool) any {
	switch x := v.(type) {
	case map[string]any:
		return normalizeMap(x, patch)
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, normalizeValue(item, false))
		}
		return out
	default:
		return x
	}
}

// ParseTree decodes a JSON object strictly. It is used for request payloads,
// where anything other than an object is a client error.
func ParseTree(data []byte) (Tree, error) {
	return parseObject(data, false)
}

// DecodePatch decodes an editor patch. Explicit nulls become Clear.
func DecodePatch(data []byte) (Tree, error) {
	return parseObject(data, true)
}

func parseObject(data []byte, patch bool) (Tree, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding token tree: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("token tree must be a JSON object, got %s", jsonKind(raw))
	}
	return normalizeMap(obj, patch), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// maxEncodingDepth bounds how many layers of JSON-in-a-string DecodeGroup unwraps.
const maxEncodingDepth = 2

// DecodeGroup leniently turns a stored token group into a Tree. Strings and
// raw bytes are parsed as JSON (including documents encoded twice). Invalid
// JSON, arrays and scalars decode to nil, meaning "absent".
func DecodeGroup(v any) Tree {
	switch x := v.(type) {
	case nil:
		return nil
	case Tree:
		return x
	case map[string]any:
		return normalizeMap(x, false)
	case json.RawMessage:
		return decodeGroupBytes(x, 0)
	case []byte:
		return decodeGroupBytes(x, 0)
	case string:
		return decodeGroupBytes([]byte(x), 0)
	default:
		return nil
	}
}

func decodeGroupBytes(data []byte, depth int) Tree {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || depth > maxEncodingDepth {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch x := raw.(type) {
	case map[string]any:
		return normalizeMap(x, false)
	case string:
		return decodeGroupBytes([]byte(x), depth+1)
	default:
		return nil
	}
}

// IsMalformedGroup reports whether v carries data that DecodeGroup could not
// use. Empty values are absent, not malformed.
func IsMalformedGroup(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		if s := strings.TrimSpace(x); s == "" || s == "null" {
			return false
		}
	case json.RawMessage:
		if len(bytes.TrimSpace(x)) == 0 || string(bytes.TrimSpace(x)) == "null" {
			return false
		}
	case []byte:
		if len(bytes.TrimSpace(x)) == 0 {
			return false
		}
	}
	return DecodeGroup(v) == nil
}
