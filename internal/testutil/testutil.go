// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: databases, loggers and
// fixtures for users, pages and themes.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a test logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary file database (runtime driver) with migrations
// applied. It is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "castpage-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestMemoryDB creates a migrated in-memory database on the mattn driver.
// The pool is limited to one connection so every query sees the same
// database.
func TestMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

var fixtureSeq atomic.Int64

// CreateUser inserts a user with a unique email and the given role.
func CreateUser(t *testing.T, db *sql.DB, role string) store.User {
	t.Helper()
	n := fixtureSeq.Add(1)
	now := time.Now().UTC()
	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
		Name:         fmt.Sprintf("User %d", n),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// CreatePage inserts a page owned by ownerID with no theme and no overrides.
func CreatePage(t *testing.T, db *sql.DB, ownerID int64) store.Page {
	t.Helper()
	n := fixtureSeq.Add(1)
	now := time.Now().UTC()
	p, err := store.New(db).CreatePage(context.Background(), store.CreatePageParams{
		Title:          fmt.Sprintf("Page %d", n),
		Slug:           fmt.Sprintf("page-%d", n),
		OwnerID:        ownerID,
		TokenOverrides: "{}",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	return p
}

// CreateTheme inserts a theme. Fields not set in params keep their zero
// values; name, slug and timestamps are filled in when empty.
func CreateTheme(t *testing.T, db *sql.DB, params store.CreateThemeParams) store.Theme {
	t.Helper()
	n := fixtureSeq.Add(1)
	if params.Scope == "" {
		params.Scope = "system"
	}
	if params.Name == "" {
		params.Name = fmt.Sprintf("Theme %d", n)
	}
	if params.Slug == "" {
		params.Slug = fmt.Sprintf("theme-%d", n)
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = time.Now().UTC()
		params.UpdatedAt = params.CreatedAt
	}
	th, err := store.New(db).CreateTheme(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateTheme: %v", err)
	}
	return th
}

// APIKeyOptions adjusts the key created by CreateAPIKey.
type APIKeyOptions struct {
	Permissions []string
	Inactive    bool
	ExpiresAt   *time.Time
}

// CreateAPIKey inserts an API key acting for userID and returns the stored
// key with the raw bearer token.
func CreateAPIKey(t *testing.T, db *sql.DB, userID int64, opts APIKeyOptions) (store.ApiKey, string) {
	t.Helper()
	rawKey, prefix, err := model.GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	var expires sql.NullTime
	if opts.ExpiresAt != nil {
		expires = sql.NullTime{Time: opts.ExpiresAt.UTC(), Valid: true}
	}
	now := time.Now().UTC()
	key, err := store.New(db).CreateAPIKey(context.Background(), store.CreateAPIKeyParams{
		Name:        fmt.Sprintf("Key %d", fixtureSeq.Add(1)),
		KeyHash:     model.HashAPIKey(rawKey),
		KeyPrefix:   prefix,
		Permissions: model.PermissionsToJSON(opts.Permissions),
		ExpiresAt:   expires,
		IsActive:    !opts.Inactive,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}
	return key, rawKey
}
