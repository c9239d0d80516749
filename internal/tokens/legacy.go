// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

import "strings"

// Theme token group names.
const (
	ThemeGroupColor      = "color"
	ThemeGroupTypography = "typography"
	ThemeGroupSpacing    = "spacing"
	ThemeGroupShape      = "shape"
	ThemeGroupMotion     = "motion"
)

// TokenGroups is the current theme schema: up to five independently
// optional groups. Each field holds the group as stored (a Tree, a decoded
// map, or JSON text) and is decoded leniently with DecodeGroup.
type TokenGroups struct {
	Color      any `json:"color,omitempty"`
	Typography any `json:"typography,omitempty"`
	Spacing    any `json:"spacing,omitempty"`
	Shape      any `json:"shape,omitempty"`
	Motion     any `json:"motion,omitempty"`
}

// Decoded returns every usable group keyed by name.
func (g TokenGroups) Decoded() map[string]Tree {
	out := make(map[string]Tree, 5)
	for name, raw := range g.raw() {
		if t := DecodeGroup(raw); t != nil {
			out[name] = t
		}
	}
	return out
}

// Malformed returns the names of groups that hold data DecodeGroup rejected.
func (g TokenGroups) Malformed() []string {
	var names []string
	for _, name := range []string{ThemeGroupColor, ThemeGroupTypography, ThemeGroupSpacing, ThemeGroupShape, ThemeGroupMotion} {
		if IsMalformedGroup(g.raw()[name]) {
			names = append(names, name)
		}
	}
	return names
}

func (g TokenGroups) raw() map[string]any {
	return map[string]any{
		ThemeGroupColor:      g.Color,
		ThemeGroupTypography: g.Typography,
		ThemeGroupSpacing:    g.Spacing,
		ThemeGroupShape:      g.Shape,
		ThemeGroupMotion:     g.Motion,
	}
}

// LegacyFields is the deprecated flat theme schema.
type LegacyFields struct {
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	AccentColor    string `json:"accent_color,omitempty"`
	HeadingFont    string `json:"heading_font,omitempty"`
	BodyFont       string `json:"body_font,omitempty"`
	PageBackground string `json:"page_background,omitempty"`
}

// IsZero reports whether no legacy field is set.
func (l LegacyFields) IsZero() bool {
	return l == LegacyFields{}
}

// ThemeSource is the token-bearing part of a theme record in both schema
// generations.
type ThemeSource struct {
	Groups TokenGroups
	Legacy LegacyFields
}

// colorRole maps one semantic destination to its fallback sources inside a
// structured color group. The first non-empty string wins.
type colorRole struct {
	dest    string
	sources []string
}

var colorRoles = []colorRole{
	{"accent.primary", []string{"accent.primary", "accent.highlight", "accent.alt"}},
	{"accent.secondary", []string{"accent.secondary", "accent.alt", "brand.secondary"}},
	{"text.primary", []string{"text.primary", "text.default", "foreground"}},
	{"text.secondary", []string{"text.secondary", "text.muted"}},
	{"state.success", []string{"state.success", "status.success"}},
	{"state.warning", []string{"state.warning", "status.warning"}},
	{"state.error", []string{"state.error", "state.danger", "status.error"}},
	{"divider.subtle", []string{"divider.subtle", "border.subtle", "border.default"}},
	{"divider.strong", []string{"divider.strong", "border.strong"}},
	{"focus.ring", []string{"focus.ring", "focus.outline"}},
}

// MapLegacyTheme derives the semantic override group for a theme. A usable
// structured color group wins; otherwise only the accent roles can be
// recovered from the flat fields. The result never contains empty groups.
func MapLegacyTheme(src ThemeSource) Tree {
	if color := DecodeGroup(src.Groups.Color); len(color) > 0 {
		return mapColorGroup(color)
	}
	return mapLegacyFlat(src.Legacy)
}

func mapColorGroup(color Tree) Tree {
	out := Tree{}
	for _, role := range colorRoles {
		if v := firstString(color, role.sources); v != "" {
			out.Set(role.dest, v)
		}
	}
	return out
}

func mapLegacyFlat(l LegacyFields) Tree {
	out := Tree{}
	accent := strings.TrimSpace(l.AccentColor)
	primary := strings.TrimSpace(l.PrimaryColor)
	switch {
	case accent != "":
		out.Set("accent.primary", accent)
	case primary != "":
		out.Set("accent.primary", primary)
	}
	if accent != "" && primary != "" {
		out.Set("accent.secondary", primary)
	}
	return out
}

func firstString(t Tree, paths []string) string {
	for _, p := range paths {
		v, ok := t.Lookup(p)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// ThemeLayer builds the partial bundle a theme contributes on top of the
// defaults. Absent groups contribute nothing.
func ThemeLayer(src ThemeSource) Tree {
	layer := Tree{}
	groups := src.Groups.Decoded()

	if semantic := MapLegacyTheme(src); len(semantic) > 0 {
		layer[GroupSemantic] = semantic
	}

	core := Tree{}
	if typography, ok := groups[ThemeGroupTypography]; ok && len(typography) > 0 {
		core["type"] = typography.Clone()
	} else {
		if font := strings.TrimSpace(src.Legacy.HeadingFont); font != "" {
			core.Set("type.family.heading", font)
		}
		if font := strings.TrimSpace(src.Legacy.BodyFont); font != "" {
			core.Set("type.family.body", font)
		}
	}
	if spacing, ok := groups[ThemeGroupSpacing]; ok && len(spacing) > 0 {
		core["space"] = spacing.Clone()
	}
	if shape, ok := groups[ThemeGroupShape]; ok && len(shape) > 0 {
		core["shape"] = shape.Clone()
	}
	if motion, ok := groups[ThemeGroupMotion]; ok && len(motion) > 0 {
		core["motion"] = motion.Clone()
	}
	if len(core) > 0 {
		layer[GroupCore] = core
	}

	if bg := strings.TrimSpace(src.Legacy.PageBackground); bg != "" {
		layer.Set(GroupComponent+".page.background", bg)
	}
	return layer
}
