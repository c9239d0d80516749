// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import "github.com/prometheus/client_golang/prometheus"

var (
	tokenResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "castpage_token_resolutions_total",
			Help: "Page token resolutions, by cache result.",
		},
		[]string{"cache"},
	)
	overrideSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "castpage_override_saves_total",
			Help: "Persisted page override changes, by action.",
		},
		[]string{"action"},
	)
	historyPrunedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "castpage_history_pruned_total",
			Help: "Override history rows removed by pruning.",
		},
	)
	malformedGroupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "castpage_malformed_theme_groups_total",
			Help: "Theme token groups ignored because they could not be decoded.",
		},
		[]string{"group"},
	)
)

func init() {
	prometheus.MustRegister(tokenResolutionsTotal, overrideSavesTotal, historyPrunedTotal, malformedGroupsTotal)
}
