// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/olegiv/castpage/internal/model"
)

// etagMatches reports whether the If-None-Match header names etag.
func etagMatches(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" || etag == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

// GetTokens handles GET /api/v1/pages/{id}/tokens.
func (h *Handler) GetTokens(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}

	pt, err := h.themes.Current(r.Context(), actor, pageID)
	if err != nil {
		h.writeServiceError(w, r, err, "resolve tokens")
		return
	}

	w.Header().Set("ETag", pt.ETag)
	if etagMatches(r, pt.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	WriteSuccess(w, pt, nil)
}

// GetTokensCSS handles GET /api/v1/pages/{id}/tokens.css.
func (h *Handler) GetTokensCSS(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}

	css, etag, err := h.themes.CSS(r.Context(), actor, pageID)
	if err != nil {
		h.writeServiceError(w, r, err, "render tokens")
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

// ResolveToken handles GET /api/v1/pages/{id}/tokens/resolve?path=.
func (h *Handler) ResolveToken(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		WriteBadRequest(w, "Query parameter path is required", nil)
		return
	}

	res, err := h.themes.ResolvePath(r.Context(), actor, pageID, path)
	if err != nil {
		h.writeServiceError(w, r, err, "resolve token")
		return
	}
	WriteSuccess(w, res, nil)
}

// PreviewTokens handles POST /api/v1/pages/{id}/tokens/preview. The body is
// resolved in place of the stored overrides and nothing is saved.
func (h *Handler) PreviewTokens(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	tree, ok := readTree(w, r, false)
	if !ok {
		return
	}

	pt, err := h.themes.Preview(r.Context(), actor, pageID, tree)
	if err != nil {
		h.writeServiceError(w, r, err, "preview tokens")
		return
	}
	WriteSuccess(w, pt, nil)
}

// SaveTokens handles PUT /api/v1/pages/{id}/tokens. The body replaces the
// page's override document.
func (h *Handler) SaveTokens(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	tree, ok := readTree(w, r, false)
	if !ok {
		return
	}

	if _, err := h.themes.Save(r.Context(), actor, pageID, tree); err != nil {
		h.writeServiceError(w, r, err, "save tokens")
		return
	}
	h.writeCurrent(w, r, actor, pageID)
}

// PatchTokens handles PATCH /api/v1/pages/{id}/tokens. Leaves in the body
// are merged into the stored overrides; null clears a path.
func (h *Handler) PatchTokens(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	patch, ok := readTree(w, r, true)
	if !ok {
		return
	}

	if _, err := h.themes.Patch(r.Context(), actor, pageID, patch); err != nil {
		h.writeServiceError(w, r, err, "update tokens")
		return
	}
	h.writeCurrent(w, r, actor, pageID)
}

// ClearTokens handles DELETE /api/v1/pages/{id}/tokens.
func (h *Handler) ClearTokens(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}

	if err := h.themes.Clear(r.Context(), actor, pageID); err != nil {
		h.writeServiceError(w, r, err, "clear tokens")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHistory handles GET /api/v1/pages/{id}/tokens/history.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}

	entries, err := h.themes.History(r.Context(), actor, pageID)
	if err != nil {
		h.writeServiceError(w, r, err, "list history")
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	WriteSuccess(w, entries, &Meta{Total: int64(len(entries)), Limit: h.themes.HistoryLimit()})
}

// RollbackRequest selects the snapshot to restore.
type RollbackRequest struct {
	HistoryID string `json:"history_id"`
}

// RollbackTokens handles POST /api/v1/pages/{id}/tokens/rollback.
func (h *Handler) RollbackTokens(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	var req RollbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.HistoryID = strings.TrimSpace(req.HistoryID)
	if req.HistoryID == "" {
		WriteValidationError(w, map[string]string{"history_id": "History ID is required"})
		return
	}

	if _, err := h.themes.Rollback(r.Context(), actor, pageID, req.HistoryID); err != nil {
		h.writeServiceError(w, r, err, "roll back tokens")
		return
	}
	h.writeCurrent(w, r, actor, pageID)
}

// SelectTheme handles PUT /api/v1/pages/{id}/theme. The body is
// {"theme_id": N}; null restores the default theme precedence.
func (h *Handler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pageID, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	var req map[string]json.RawMessage
	if !decodeJSON(w, r, &req) {
		return
	}
	raw, present := req["theme_id"]
	if !present {
		WriteValidationError(w, map[string]string{"theme_id": "theme_id is required (null for default)"})
		return
	}
	var themeID *int64
	if err := json.Unmarshal(raw, &themeID); err != nil || (themeID != nil && *themeID <= 0) {
		WriteValidationError(w, map[string]string{"theme_id": "theme_id must be a positive integer or null"})
		return
	}

	pt, err := h.themes.SelectTheme(r.Context(), actor, pageID, themeID)
	if err != nil {
		h.writeServiceError(w, r, err, "select theme")
		return
	}
	WriteSuccess(w, pt, nil)
}

// writeCurrent responds with the page's freshly resolved tokens.
func (h *Handler) writeCurrent(w http.ResponseWriter, r *http.Request, actor model.Actor, pageID int64) {
	pt, err := h.themes.Current(r.Context(), actor, pageID)
	if err != nil {
		h.writeServiceError(w, r, err, "resolve tokens")
		return
	}
	w.Header().Set("ETag", pt.ETag)
	WriteSuccess(w, pt, nil)
}
