// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production mode enables HSTS", false, true},
		{"development mode disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(simpleOKHandler)
			rec := executeRequest(handler, http.MethodGet, "/api/v1/status")

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && hsts != "max-age=31536000; includeSubDomains" {
				t.Errorf("Strict-Transport-Security = %q", hsts)
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("expected no HSTS header but got: %s", hsts)
			}

			want := map[string]string{
				"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
				"X-Frame-Options":         "DENY",
				"X-Content-Type-Options":  "nosniff",
				"Referrer-Policy":         "no-referrer",
			}
			for header, value := range want {
				if got := rec.Header().Get(header); got != value {
					t.Errorf("%s = %q, want %q", header, got, value)
				}
			}
		})
	}
}

func TestSecurityHeadersZeroHSTS(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.HSTSMaxAge = 0
	cfg.ContentSecurityPolicy = ""

	rec := executeRequest(SecurityHeaders(cfg)(simpleOKHandler), http.MethodGet, "/")

	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security = %q, want empty", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("Content-Security-Policy = %q, want empty", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSecurityHeadersDoNotBlockHandler(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(true))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.WriteHeader(http.StatusNotModified)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/1/tokens.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotModified)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/css" {
		t.Errorf("Content-Type = %q, want text/css", got)
	}
}
