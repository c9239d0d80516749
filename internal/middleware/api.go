// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for API key authentication,
// permission checks, rate limiting and request instrumentation.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys set by APIKeyAuth.
const (
	ContextKeyAPIKey ContextKey = "api_key"
	ContextKeyActor  ContextKey = "actor"
)

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// authFailure is a rejected credential with the message shown to the client.
type authFailure struct {
	status  int
	code    string
	message string
}

func unauthorized(msg string) *authFailure {
	return &authFailure{status: http.StatusUnauthorized, code: "unauthorized", message: msg}
}

// validateAPIKey parses the Authorization header, checks the key and loads
// the user it acts for.
func validateAPIKey(r *http.Request, queries *store.Queries) (store.ApiKey, model.Actor, *authFailure) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return store.ApiKey{}, model.Actor{}, unauthorized("Missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return store.ApiKey{}, model.Actor{}, unauthorized("Invalid Authorization header format. Use: Bearer <api_key>")
	}

	rawKey := strings.TrimSpace(parts[1])
	if rawKey == "" {
		return store.ApiKey{}, model.Actor{}, unauthorized("API key is empty")
	}

	apiKey, err := queries.GetAPIKeyByHash(r.Context(), model.HashAPIKey(rawKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ApiKey{}, model.Actor{}, unauthorized("Invalid API key")
		}
		slog.Error("failed to validate API key", "category", model.EventCategoryAuth, "error", err)
		return store.ApiKey{}, model.Actor{}, &authFailure{http.StatusInternalServerError, "internal_error", "Failed to validate API key"}
	}

	if !apiKey.IsActive {
		return store.ApiKey{}, model.Actor{}, unauthorized("API key is inactive")
	}
	if apiKey.ExpiresAt.Valid && time.Now().After(apiKey.ExpiresAt.Time) {
		return store.ApiKey{}, model.Actor{}, unauthorized("API key has expired")
	}

	user, err := queries.GetUserByID(r.Context(), apiKey.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ApiKey{}, model.Actor{}, unauthorized("API key owner no longer exists")
		}
		slog.Error("failed to load API key owner", "category", model.EventCategoryAuth, "api_key_id", apiKey.ID, "error", err)
		return store.ApiKey{}, model.Actor{}, &authFailure{http.StatusInternalServerError, "internal_error", "Failed to validate API key"}
	}

	return apiKey, model.UserFromStore(user).Actor(), nil
}

// APIKeyAuth creates middleware that validates API key authentication.
// It checks the Authorization header for a Bearer token and puts both the
// key and the actor it represents into the request context.
func APIKeyAuth(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, actor, fail := validateAPIKey(r, queries)
			if fail != nil {
				WriteAPIError(w, fail.status, fail.code, fail.message, nil)
				return
			}

			updateAPIKeyLastUsed(queries, apiKey.ID)

			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, apiKey)
			ctx = context.WithValue(ctx, ContextKeyActor, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey retrieves the API key from the request context.
// Returns nil if no API key is in context.
func GetAPIKey(r *http.Request) *store.ApiKey {
	apiKey, ok := r.Context().Value(ContextKeyAPIKey).(store.ApiKey)
	if !ok {
		return nil
	}
	return &apiKey
}

// GetActor returns the actor authenticated for the request.
func GetActor(r *http.Request) (model.Actor, bool) {
	actor, ok := r.Context().Value(ContextKeyActor).(model.Actor)
	return actor, ok
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// updateAPIKeyLastUsed updates the last used timestamp in a background goroutine.
func updateAPIKeyLastUsed(queries *store.Queries, keyID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queries.UpdateAPIKeyLastUsed(ctx, store.UpdateAPIKeyLastUsedParams{
			LastUsedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
			ID:         keyID,
		})
	}()
}

// RequirePermission creates middleware that requires a specific API permission.
// This should be used after APIKeyAuth middleware.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := GetAPIKey(r)
			if apiKey == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "API key required", nil)
				return
			}

			if !model.HasPermission(apiKey.Permissions, permission) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", "API key lacks required permission: "+permission, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	maxSize  int
}

// maxLimiters bounds each limiter cache; it is reset when exceeded.
const maxLimiters = 10000

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		maxSize:  maxLimiters,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	if lc.maxSize > 0 && len(lc.limiters) >= lc.maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// size returns the number of tracked keys.
func (lc *limiterCache[K]) size() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// APIRateLimit creates middleware that rate limits requests per API key.
// rps is requests per second, burst is the maximum burst size.
func APIRateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache[int64](rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := GetAPIKey(r)
			if apiKey == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !cache.get(apiKey.ID).Allow() {
				rateLimitedTotal.WithLabelValues("api_key").Inc()
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimiter limits unauthenticated requests per client IP.
type GlobalRateLimiter struct {
	cache *limiterCache[string]
}

// NewGlobalRateLimiter creates a new global rate limiter.
func NewGlobalRateLimiter(rps float64, burst int) *GlobalRateLimiter {
	return &GlobalRateLimiter{
		cache: newLimiterCache[string](rps, burst),
	}
}

// Middleware returns the rate limiting middleware for API routes.
func (rl *GlobalRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			if !rl.cache.get(ip).Allow() {
				rateLimitedTotal.WithLabelValues("ip").Inc()
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Real-IP header (set by reverse proxies)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	// X-Forwarded-For can contain multiple IPs; take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
