// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/theme"
	"github.com/olegiv/castpage/internal/tokens"
)

// CreateThemeRequest is the body of POST /api/v1/themes.
type CreateThemeRequest struct {
	Name   string                     `json:"name"`
	Groups map[string]json.RawMessage `json:"groups"`
	Legacy tokens.LegacyFields        `json:"legacy"`
}

// CloneThemeRequest is the optional body of POST /api/v1/themes/{id}/clone.
type CloneThemeRequest struct {
	Name string `json:"name"`
}

// RenameThemeRequest is the body of PATCH /api/v1/themes/{id}.
type RenameThemeRequest struct {
	Name string `json:"name"`
}

// ListThemes handles GET /api/v1/themes?scope=system|user|all.
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = model.ThemeScopeAll
	}

	themes, err := h.themes.List(r.Context(), actor, scope)
	if err != nil {
		h.writeServiceError(w, r, err, "list themes")
		return
	}
	if themes == nil {
		themes = []model.Theme{}
	}
	WriteSuccess(w, themes, &Meta{Total: int64(len(themes))})
}

// GetTheme handles GET /api/v1/themes/{id}.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r, "theme")
	if !ok {
		return
	}

	th, err := h.themes.Get(r.Context(), actor, id)
	if err != nil {
		h.writeServiceError(w, r, err, "get theme")
		return
	}
	WriteSuccess(w, th, nil)
}

// CreateTheme handles POST /api/v1/themes.
func (h *Handler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateThemeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	groups := make(map[string]tokens.Tree, len(req.Groups))
	fieldErrors := make(map[string]string)
	for name, raw := range req.Groups {
		tree, err := tokens.ParseTree(raw)
		if err != nil {
			fieldErrors["groups."+name] = "Group must be a JSON object"
			continue
		}
		groups[name] = tree
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	th, err := h.themes.Create(r.Context(), actor, theme.CreateThemeInput{
		Name:   req.Name,
		Groups: groups,
		Legacy: req.Legacy,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "create theme")
		return
	}
	WriteCreated(w, th)
}

// CloneTheme handles POST /api/v1/themes/{id}/clone. An empty body derives
// the name from the source theme.
func (h *Handler) CloneTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r, "theme")
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req CloneThemeRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			WriteBadRequest(w, "Invalid JSON body", nil)
			return
		}
	}

	th, err := h.themes.Clone(r.Context(), actor, id, req.Name)
	if err != nil {
		h.writeServiceError(w, r, err, "clone theme")
		return
	}
	WriteCreated(w, th)
}

// RenameTheme handles PATCH /api/v1/themes/{id}.
func (h *Handler) RenameTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r, "theme")
	if !ok {
		return
	}
	var req RenameThemeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	th, err := h.themes.Rename(r.Context(), actor, id, req.Name)
	if err != nil {
		h.writeServiceError(w, r, err, "rename theme")
		return
	}
	WriteSuccess(w, th, nil)
}

// DeleteTheme handles DELETE /api/v1/themes/{id}.
func (h *Handler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r, "theme")
	if !ok {
		return
	}

	if err := h.themes.Delete(r.Context(), actor, id); err != nil {
		h.writeServiceError(w, r, err, "delete theme")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
