// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/testutil"
	"github.com/olegiv/castpage/internal/theme"
	"github.com/olegiv/castpage/internal/version"
)

// testAPI is a mounted API with one editor, their page and a full-access key.
type testAPI struct {
	db     *sql.DB
	router http.Handler
	user   store.User
	page   store.Page
	key    string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()

	svc := theme.NewService(db, theme.Options{Logger: logger})
	h := NewHandler(db, svc, logger, &version.Info{Version: "v0.1.0-test"})
	docs, err := NewDocsHandler("http://castpage.test")
	require.NoError(t, err)

	r := chi.NewRouter()
	Mount(r, db, h, docs, RouteConfig{GlobalRPS: 1000, GlobalBurst: 1000, KeyRPS: 1000, KeyBurst: 1000})

	user := testutil.CreateUser(t, db, model.RoleEditor)
	page := testutil.CreatePage(t, db, user.ID)
	_, key := testutil.CreateAPIKey(t, db, user.ID, testutil.APIKeyOptions{Permissions: model.AllPermissions()})

	return &testAPI{db: db, router: r, user: user, page: page, key: key}
}

// do sends a request with the full-access key.
func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	return a.doWithKey(a.key, method, path, body, nil)
}

func (a *testAPI) doWithKey(key, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, Prefix+path, reader)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// keyFor creates a key for userID limited to perms.
func (a *testAPI) keyFor(t *testing.T, userID int64, perms ...string) string {
	t.Helper()
	_, key := testutil.CreateAPIKey(t, a.db, userID, testutil.APIKeyOptions{Permissions: perms})
	return key
}

// decodeData unmarshals the data member of a success response into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// decodeMeta returns the meta member of a list response.
func decodeMeta(t *testing.T, w *httptest.ResponseRecorder) Meta {
	t.Helper()
	var resp struct {
		Meta Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Meta
}

// errorCode returns error.code from an error response.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp.Error.Code
}

func pagePath(p store.Page, suffix string) string {
	return "/pages/" + itoa(p.ID) + suffix
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// storeThemeWithAccent builds a system theme whose color group sets the
// primary accent.
func storeThemeWithAccent(name, accent string) store.CreateThemeParams {
	return store.CreateThemeParams{
		Name:        name,
		Scope:       model.ThemeScopeSystem,
		ColorTokens: sql.NullString{String: `{"accent":{"primary":"` + accent + `"}}`, Valid: true},
	}
}
