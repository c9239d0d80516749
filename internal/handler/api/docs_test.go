// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewDocsHandler(t *testing.T) {
	h, err := NewDocsHandler("https://pages.example.com/")
	if err != nil {
		t.Fatalf("NewDocsHandler: %v", err)
	}

	page := string(h.page)
	if !strings.Contains(page, "<h1") {
		t.Error("expected rendered heading")
	}
	if !strings.Contains(page, "<table>") {
		t.Error("expected GFM table to render")
	}
	if !strings.Contains(page, "https://pages.example.com/api/v1") {
		t.Error("expected base URL substitution without a doubled slash")
	}
	if strings.Contains(page, "{{base_url}}") {
		t.Error("placeholder left in output")
	}
}

func TestServeDocs(t *testing.T) {
	a := newTestAPI(t)

	w := a.doWithKey("", http.MethodGet, RouteDocs, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "castpage API reference") {
		t.Error("expected page title")
	}
	if !strings.Contains(w.Body.String(), "http://castpage.test/api/v1") {
		t.Error("expected configured base URL")
	}
}

func TestServeDocs_DefaultBaseURL(t *testing.T) {
	h, err := NewDocsHandler("")
	if err != nil {
		t.Fatalf("NewDocsHandler: %v", err)
	}
	w := httptest.NewRecorder()
	h.ServeDocs(w, httptest.NewRequest(http.MethodGet, "/api/v1/docs", nil))

	if !strings.Contains(w.Body.String(), "http://localhost:8080/api/v1") {
		t.Error("expected default base URL")
	}
}
