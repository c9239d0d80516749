// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for page tokens and themes.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/castpage/internal/middleware"
	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/theme"
	"github.com/olegiv/castpage/internal/tokens"
	"github.com/olegiv/castpage/internal/util"
	"github.com/olegiv/castpage/internal/version"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db      *sql.DB
	themes  *theme.Service
	logger  *slog.Logger
	version *version.Info
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, themes *theme.Service, logger *slog.Logger, versionInfo *version.Info) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if versionInfo == nil {
		versionInfo = &version.Info{}
	}
	return &Handler{
		db:      db,
		themes:  themes,
		logger:  logger,
		version: versionInfo,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total int64 `json:"total"`
	Limit int   `json:"limit,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps theme service errors onto API responses. Anything
// unexpected is logged and reported as an internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, theme.ErrPageNotFound):
		WriteNotFound(w, "Page not found")
	case errors.Is(err, theme.ErrThemeNotFound):
		WriteNotFound(w, "Theme not found")
	case errors.Is(err, theme.ErrHistoryNotFound):
		WriteNotFound(w, "History entry not found")
	case errors.Is(err, theme.ErrThemeReadOnly):
		WriteForbidden(w, "System themes are read-only")
	case errors.Is(err, theme.ErrInvalidName):
		WriteValidationError(w, map[string]string{"name": "Name must be 1 to 100 characters of plain text"})
	case errors.Is(err, theme.ErrInvalidGroup):
		WriteValidationError(w, map[string]string{"groups": err.Error()})
	case errors.Is(err, theme.ErrInvalidScope):
		WriteBadRequest(w, "Scope must be one of system, user, all", nil)
	default:
		h.logger.Error("api request failed",
			"action", action,
			"path", r.URL.Path,
			"request_id", middleware.RequestID(r.Context()),
			"error", err)
		WriteInternalError(w, "Failed to "+action)
	}
}

// requireActor returns the authenticated actor or writes 401.
func requireActor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		WriteUnauthorized(w, "API key required")
		return model.Actor{}, false
	}
	return actor, true
}

// parseIDParam reads a positive integer URL parameter or writes 400.
func parseIDParam(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return 0, false
	}
	return id, true
}

// readBody reads a bounded request body or writes 400/413.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
			return nil, false
		}
		WriteBadRequest(w, "Failed to read request body", nil)
		return nil, false
	}
	return data, true
}

// decodeJSON decodes a bounded JSON body into v or writes 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	data, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// readTree reads a body that must be a single JSON object of tokens. patch
// keeps explicit nulls as clear markers.
func readTree(w http.ResponseWriter, r *http.Request, patch bool) (tokens.Tree, bool) {
	data, ok := readBody(w, r)
	if !ok {
		return nil, false
	}
	parse := tokens.ParseTree
	if patch {
		parse = tokens.DecodePatch
	}
	tree, err := parse(data)
	if err != nil {
		WriteBadRequest(w, "Token overrides must be a JSON object", map[string]string{"body": err.Error()})
		return nil, false
	}
	return tree, true
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status          string `json:"status"`
	API             string `json:"api"`
	Version         string `json:"version"`
	DefaultsVersion string `json:"defaults_version"`
	Database        string `json:"database"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:          "ok",
		API:             "v1",
		Version:         h.version.Short(),
		DefaultsVersion: tokens.DefaultVersion,
		Database:        "ok",
	}
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn("status database ping failed", "category", model.EventCategorySystem, "error", err)
		resp.Status = "degraded"
		resp.Database = "unavailable"
		WriteJSON(w, http.StatusServiceUnavailable, Response{Data: resp})
		return
	}
	WriteSuccess(w, resp, nil)
}

// AuthInfoResponse describes the calling API key.
type AuthInfoResponse struct {
	KeyPrefix   string   `json:"key_prefix"`
	Name        string   `json:"name"`
	UserID      int64    `json:"user_id"`
	Admin       bool     `json:"admin"`
	Permissions []string `json:"permissions"`
}

// AuthInfo returns information about the authenticated API key.
func (h *Handler) AuthInfo(w http.ResponseWriter, r *http.Request) {
	apiKey := middleware.GetAPIKey(r)
	actor, ok := middleware.GetActor(r)
	if apiKey == nil || !ok {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	WriteSuccess(w, AuthInfoResponse{
		KeyPrefix:   apiKey.KeyPrefix,
		Name:        apiKey.Name,
		UserID:      actor.UserID,
		Admin:       actor.Admin,
		Permissions: model.ParsePermissions(apiKey.Permissions),
	}, nil)
}
