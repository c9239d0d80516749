// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers that sit outside the versioned API.
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/castpage/internal/cache"
	"github.com/olegiv/castpage/internal/version"
)

// Health check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	cache     cache.Cacher
	backend   string
	version   *version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. c may be nil when caching
// is disabled.
func NewHealthHandler(db *sql.DB, c cache.Cacher, backend string, versionInfo *version.Info) *HealthHandler {
	if versionInfo == nil {
		versionInfo = &version.Info{}
	}
	return &HealthHandler{
		db:        db,
		cache:     c,
		backend:   backend,
		version:   versionInfo,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. The database must be reachable; a failing
// cache only degrades the service since pages still resolve without it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	cacheCheck := h.checkCache(r.Context())

	overall := StatusHealthy
	switch {
	case dbCheck.Status != StatusHealthy:
		overall = StatusUnhealthy
	case cacheCheck.Status != StatusHealthy:
		overall = StatusDegraded
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Short(),
		Checks: map[string]Check{
			"database": dbCheck,
			"cache":    cacheCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
		if sp, ok := h.cache.(cache.StatsProvider); ok {
			stats := sp.Stats()
			status.Cache = &stats
		}
	}

	code := http.StatusOK
	if overall == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if dbCheck := h.checkDatabase(r.Context()); dbCheck.Status != StatusHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: StatusUnhealthy, Message: "Database unreachable", Latency: latency.String()}
	}
	return Check{Status: StatusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkCache probes the cache with a lookup of a key that is never written.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: StatusHealthy, Message: "Disabled"}
	}
	start := time.Now()
	_, err := h.cache.Has(ctx, "health:probe")
	latency := time.Since(start)

	if err != nil {
		return Check{Status: StatusDegraded, Message: h.backend + " unreachable", Latency: latency.String()}
	}
	return Check{Status: StatusHealthy, Message: h.backend, Latency: latency.String()}
}

// systemInfo returns system-level metrics.
func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
