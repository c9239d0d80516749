// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tokens

// DefaultVersion identifies the compiled-in default bundle. Bump it whenever
// defaultBundle changes so cached variable sets are not reused.
const DefaultVersion = "2025.3"

// Default returns a fresh copy of the compiled-in default bundle.
func Default() Bundle {
	return defaultBundle.Clone()
}

// defaultBundle is never handed out directly; Default clones it.
var defaultBundle = Bundle{
	Core: Tree{
		"color": Tree{
			"neutral": Tree{
				"0":   "#ffffff",
				"50":  "#f7f7f8",
				"100": "#eceef1",
				"300": "#c5c9d2",
				"500": "#6b7280",
				"700": "#374151",
				"900": "#111827",
			},
			"accent": Tree{
				"primary":   "#0066ff",
				"secondary": "#7c3aed",
				"highlight": "#ff6b35",
			},
			"state": Tree{
				"success": "#16a34a",
				"warning": "#d97706",
				"error":   "#dc2626",
			},
		},
		"space": Tree{
			"xs":  4,
			"sm":  8,
			"md":  16,
			"lg":  24,
			"xl":  32,
			"xxl": 48,
		},
		"type": Tree{
			"family": Tree{
				"heading": "Inter, system-ui, sans-serif",
				"body":    "Inter, system-ui, sans-serif",
				"mono":    "JetBrains Mono, ui-monospace, monospace",
			},
			"scale": Tree{
				"xs":  12,
				"sm":  14,
				"md":  16,
				"lg":  20,
				"xl":  24,
				"xxl": 32,
			},
			"weight": Tree{
				"regular": 400,
				"medium":  500,
				"bold":    700,
			},
			"lineHeight": Tree{
				"tight":  1.2,
				"normal": 1.5,
			},
		},
		"shape": Tree{
			"radius": Tree{
				"none": 0,
				"sm":   4,
				"md":   8,
				"lg":   16,
				"pill": 999,
			},
		},
		"motion": Tree{
			"duration": Tree{
				"fast":   "120ms",
				"normal": "200ms",
				"slow":   "320ms",
			},
			"easing": Tree{
				"standard": "cubic-bezier(0.2, 0, 0, 1)",
			},
		},
	},
	Semantic: Tree{
		"accent": Tree{
			"primary":   "core.color.accent.primary",
			"secondary": "core.color.accent.secondary",
			"highlight": "color.accent.highlight",
		},
		"text": Tree{
			"primary":   "core.color.neutral.900",
			"secondary": "core.color.neutral.700",
			"muted":     "core.color.neutral.500",
			"inverse":   "core.color.neutral.0",
		},
		"background": Tree{
			"page":    "core.color.neutral.0",
			"surface": "core.color.neutral.50",
			"raised":  "core.color.neutral.100",
		},
		"state": Tree{
			"success": "core.color.state.success",
			"warning": "core.color.state.warning",
			"error":   "core.color.state.error",
		},
		"divider": Tree{
			"subtle": "core.color.neutral.100",
			"strong": "core.color.neutral.300",
		},
		"focus": Tree{
			"ring": "semantic.accent.primary",
		},
	},
	Component: Tree{
		"page": Tree{
			"background": "semantic.background.page",
		},
		"heading": Tree{
			"font":  "type.family.heading",
			"color": "semantic.text.primary",
		},
		"body": Tree{
			"font":  "type.family.body",
			"size":  "type.scale.md",
			"color": "semantic.text.secondary",
		},
		"link": Tree{
			"text":  "semantic.accent.primary",
			"hover": "semantic.accent.highlight",
		},
		"button": Tree{
			"background": "semantic.accent.primary",
			"text":       "semantic.text.inverse",
			"radius":     "core.shape.radius.md",
			"paddingX":   "space.md",
			"paddingY":   "space.sm",
		},
		"card": Tree{
			"background": "semantic.background.surface",
			"border":     "semantic.divider.subtle",
			"radius":     "core.shape.radius.lg",
			"padding":    "space.lg",
		},
		"player": Tree{
			"accent": "semantic.accent.primary",
			"track":  "semantic.divider.subtle",
			"text":   "semantic.text.primary",
		},
		"episodeList": Tree{
			"title":   "semantic.text.primary",
			"meta":    "semantic.text.muted",
			"divider": "semantic.divider.subtle",
		},
	},
}
