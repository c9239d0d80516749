// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/castpage/internal/cache"
	"github.com/olegiv/castpage/internal/testutil"
	"github.com/olegiv/castpage/internal/version"
)

// brokenCache fails every lookup.
type brokenCache struct{ cache.Cacher }

func (brokenCache) Has(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func getHealth(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, HealthStatus) {
	t.Helper()
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, target, nil))
	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	return w, status
}

func TestHealth_Healthy(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })
	h := NewHealthHandler(db, mc, cache.BackendMemory, &version.Info{Version: "v1.2.3"})

	w, status := getHealth(t, h.Health, "/health")

	if w.Code != http.StatusOK {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	if status.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", status.Status, StatusHealthy)
	}
	if status.Version != "v1.2.3" {
		t.Errorf("version = %q", status.Version)
	}
	if status.Checks["cache"].Message != cache.BackendMemory {
		t.Errorf("cache check = %+v", status.Checks["cache"])
	}
	if status.System != nil {
		t.Error("system info should only be present in verbose mode")
	}

	if status.Cache != nil {
		t.Error("cache stats should only be present in verbose mode")
	}

	if err := mc.Set(context.Background(), "page:1", []byte("{}"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, verbose := getHealth(t, h.Health, "/health?verbose=true")
	if verbose.System == nil || verbose.System.GoVersion == "" {
		t.Error("expected system info in verbose mode")
	}
	if verbose.Cache == nil || verbose.Cache.Sets != 1 || verbose.Cache.Items != 1 {
		t.Errorf("cache stats = %+v, want 1 set and 1 item", verbose.Cache)
	}
}

func TestHealth_NoCache(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, nil, "", nil)

	w, status := getHealth(t, h.Health, "/health")

	if w.Code != http.StatusOK || status.Status != StatusHealthy {
		t.Errorf("got %d %q, want healthy", w.Code, status.Status)
	}
	if status.Version != "dev" {
		t.Errorf("version = %q, want dev", status.Version)
	}
}

func TestHealth_CacheDown(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, brokenCache{}, cache.BackendRedis, nil)

	w, status := getHealth(t, h.Health, "/health")

	if w.Code != http.StatusOK {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	if status.Status != StatusDegraded {
		t.Errorf("status = %q, want %q", status.Status, StatusDegraded)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	_ = db.Close()
	h := NewHealthHandler(db, nil, "", nil)

	w, status := getHealth(t, h.Health, "/health")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	if status.Status != StatusUnhealthy {
		t.Errorf("status = %q, want %q", status.Status, StatusUnhealthy)
	}

	rw := httptest.NewRecorder()
	h.Readiness(rw, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rw.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness = %d, want %d", rw.Code, http.StatusServiceUnavailable)
	}
}

func TestLivenessAndReadiness(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, nil, "", nil)

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("liveness = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("readiness = %d", w.Code)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
