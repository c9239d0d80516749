// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/castpage/internal/middleware"
	"github.com/olegiv/castpage/internal/model"
)

// Route paths relative to /api/v1.
const (
	RouteStatus       = "/status"
	RouteDocs         = "/docs"
	RouteAuth         = "/auth"
	RoutePageTokens   = "/pages/{id}/tokens"
	RoutePageCSS      = "/pages/{id}/tokens.css"
	RoutePageResolve  = "/pages/{id}/tokens/resolve"
	RoutePageHistory  = "/pages/{id}/tokens/history"
	RoutePagePreview  = "/pages/{id}/tokens/preview"
	RoutePageRollback = "/pages/{id}/tokens/rollback"
	RoutePageTheme    = "/pages/{id}/theme"
	RouteThemes       = "/themes"
	RouteThemesID     = "/themes/{id}"
	RouteThemesClone  = "/themes/{id}/clone"
)

// Prefix is where the API is mounted.
const Prefix = "/api/v1"

// RouteConfig sets the API rate limits.
type RouteConfig struct {
	GlobalRPS   float64
	GlobalBurst int
	KeyRPS      float64
	KeyBurst    int
}

// DefaultRouteConfig returns the limits used when none are configured.
func DefaultRouteConfig() RouteConfig {
	return RouteConfig{GlobalRPS: 100, GlobalBurst: 200, KeyRPS: 10, KeyBurst: 20}
}

// Mount registers the v1 API on r.
func Mount(r chi.Router, db *sql.DB, h *Handler, docs *DocsHandler, cfg RouteConfig) {
	r.Route(Prefix, func(r chi.Router) {
		r.Use(middleware.NewGlobalRateLimiter(cfg.GlobalRPS, cfg.GlobalBurst).Middleware())

		// Public endpoints
		r.Get(RouteStatus, h.Status)
		if docs != nil {
			r.Get(RouteDocs, docs.ServeDocs)
		}

		// Protected endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(db))
			r.Use(middleware.APIRateLimit(cfg.KeyRPS, cfg.KeyBurst))

			r.Get(RouteAuth, h.AuthInfo)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(model.PermissionTokensRead))
				r.Get(RoutePageTokens, h.GetTokens)
				r.Get(RoutePageCSS, h.GetTokensCSS)
				r.Get(RoutePageResolve, h.ResolveToken)
				r.Get(RoutePageHistory, h.ListHistory)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(model.PermissionTokensWrite))
				r.Post(RoutePagePreview, h.PreviewTokens)
				r.Put(RoutePageTokens, h.SaveTokens)
				r.Patch(RoutePageTokens, h.PatchTokens)
				r.Delete(RoutePageTokens, h.ClearTokens)
				r.Post(RoutePageRollback, h.RollbackTokens)
				r.Put(RoutePageTheme, h.SelectTheme)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(model.PermissionThemesRead))
				r.Get(RouteThemes, h.ListThemes)
				r.Get(RouteThemesID, h.GetTheme)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(model.PermissionThemesWrite))
				r.Post(RouteThemes, h.CreateTheme)
				r.Post(RouteThemesClone, h.CloneTheme)
				r.Patch(RouteThemesID, h.RenameTheme)
				r.Delete(RouteThemesID, h.DeleteTheme)
			})
		})
	})
}
