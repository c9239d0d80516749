// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Variable is one named style value.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variables is a flat, name-sorted variable set.
type Variables []Variable

// lengthNames are path segments (in kebab form) whose numeric leaves are
// pixel lengths. A segment may also carry one axis or side suffix from
// lengthSides, as in paddingX or marginTop.
var lengthNames = map[string]bool{
	"space": true, "spacing": true, "scale": true, "radius": true,
	"padding": true, "margin": true, "gap": true, "size": true,
	"width": true, "height": true, "font-size": true, "border-width": true,
	"min-width": true, "max-width": true, "min-height": true, "max-height": true,
}

var lengthSides = map[string]bool{
	"x": true, "y": true, "top": true, "right": true, "bottom": true, "left": true,
	"inline": true, "block": true, "start": true, "end": true,
}

// Emit flattens a resolved bundle into variables. Output is sorted by name
// and depends only on b.
//
// Distinct paths can map to one name (paddingX and padding-x). The path that
// sorts first wins.
func Emit(b Bundle) Variables {
	type entry struct {
		path  string
		value string
	}
	byName := make(map[string]entry, 96)

	for _, group := range GroupNames {
		g := b.Group(group)
		if g == nil {
			continue
		}
		g.Leaves(func(path string, v any) {
			segs := strings.Split(path, ".")
			value, ok := formatValue(v, isLengthPath(segs))
			if !ok {
				return
			}
			name := VariableName(group, segs)
			full := group + "." + path
			if prev, dup := byName[name]; dup && prev.path <= full {
				return
			}
			byName[name] = entry{path: full, value: value}
		})
	}

	for _, c := range composites(b) {
		if _, dup := byName[c.Name]; !dup {
			byName[c.Name] = entry{value: c.Value}
		}
	}

	vars := make(Variables, 0, len(byName))
	for name, e := range byName {
		vars = append(vars, Variable{Name: name, Value: e.value})
	}

	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

// VariableName builds the custom property name for a leaf.
func VariableName(group string, segs []string) string {
	parts := make([]string, 0, len(segs)+1)
	parts = append(parts, group)
	for _, s := range segs {
		parts = append(parts, kebab(s))
	}
	return "--" + strings.Join(parts, "-")
}

// kebab lower-cases s, splitting camelCase humps and replacing anything
// outside [a-z0-9] with hyphens.
func kebab(s string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			prevLower = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
			prevLower = true
		default:
			sb.WriteByte('-')
			prevLower = false
		}
	}
	return strings.Trim(sb.String(), "-")
}

func isLengthPath(segs []string) bool {
	for _, seg := range segs {
		if isLengthSegment(seg) {
			return true
		}
	}
	return false
}

func isLengthSegment(seg string) bool {
	k := kebab(seg)
	if lengthNames[k] {
		return true
	}
	i := strings.LastIndexByte(k, '-')
	return i > 0 && lengthSides[k[i+1:]] && lengthNames[k[:i]]
}

// formatValue renders a leaf as a style value. Groups, nil and Clear have no
// rendering.
func formatValue(v any, length bool) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return formatNumber(x, length), true
	case float32:
		return formatNumber(float64(x), length), true
	case int:
		return formatNumber(float64(x), length), true
	case int64:
		return formatNumber(float64(x), length), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := formatValue(item, length); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}

func formatNumber(f float64, length bool) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if length && f != 0 {
		return s + "px"
	}
	return s
}

// composites derives values built from several leaves. Each is emitted only
// when every leaf it needs is present.
func composites(b Bundle) Variables {
	var out Variables
	tree := b.Tree()

	primary, okP := stringAt(tree, "semantic.accent.primary")
	secondary, okS := stringAt(tree, "semantic.accent.secondary")
	if okP && okS {
		out = append(out, Variable{
			Name:  "--gradient-accent",
			Value: fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", primary, secondary),
		})
	}

	from, okF := stringAt(tree, "component.page.gradient.from")
	to, okT := stringAt(tree, "component.page.gradient.to")
	if okF && okT {
		angle := "135deg"
		if v, ok := tree.Lookup("component.page.gradient.angle"); ok {
			switch a := v.(type) {
			case string:
				if strings.TrimSpace(a) != "" {
					angle = strings.TrimSpace(a)
				}
			default:
				if s, ok := formatValue(a, false); ok {
					angle = s + "deg"
				}
			}
		}
		out = append(out, Variable{
			Name:  "--page-background-gradient",
			Value: fmt.Sprintf("linear-gradient(%s, %s, %s)", angle, from, to),
		})
	}
	return out
}

func stringAt(t Tree, path string) (string, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Map returns the variables keyed by name.
func (vs Variables) Map() map[string]string {
	m := make(map[string]string, len(vs))
	for _, v := range vs {
		m[v.Name] = v.Value
	}
	return m
}

// CSS renders the variables as one declaration block for selector.
func (vs Variables) CSS(selector string) string {
	if selector == "" {
		selector = ":root"
	}
	var sb strings.Builder
	sb.WriteString(selector)
	sb.WriteString(" {\n")
	for _, v := range vs {
		sb.WriteString("  ")
		sb.WriteString(v.Name)
		sb.WriteString(": ")
		sb.WriteString(v.Value)
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

// ETag returns a quoted content hash suitable for HTTP caching.
func (vs Variables) ETag() string {
	h := sha256.New()
	for _, v := range vs {
		h.Write([]byte(v.Name))
		h.Write([]byte{':'})
		h.Write([]byte(v.Value))
		h.Write([]byte{'\n'})
	}
	return `"` + hex.EncodeToString(h.Sum(nil))[:32] + `"`
}

// EmitLegacy derives the flat fields older renderers still read. The accent
// roles are read back the way MapLegacyTheme writes them; SecondaryColor has
// no semantic role and stays empty.
func EmitLegacy(b Bundle) LegacyFields {
	tree := b.Tree()
	get := func(path string) string {
		v, ok := tree.Lookup(path)
		if !ok {
			return ""
		}
		s, _ := formatValue(v, false)
		return s
	}
	return LegacyFields{
		PrimaryColor:   get("semantic.accent.secondary"),
		AccentColor:    get("semantic.accent.primary"),
		HeadingFont:    get("core.type.family.heading"),
		BodyFont:       get("core.type.family.body"),
		PageBackground: get("component.page.background"),
	}
}
