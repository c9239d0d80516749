// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/castpage/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// SeedOptions controls what Seed creates besides the system themes.
type SeedOptions struct {
	// AdminPassword overrides DefaultAdminPassword.
	AdminPassword string
	// BootstrapAPIKeyHash, when set, is stored as an active admin API key.
	BootstrapAPIKeyHash   string
	BootstrapAPIKeyPrefix string
	// SamplePage creates an example page owned by the admin.
	SamplePage bool
}

// systemThemes returns the built-in theme definitions.
func systemThemes() []CreateThemeParams {
	return []CreateThemeParams{
		{
			Name: "Studio",
			Slug: "studio",
			ColorTokens: sql.NullString{Valid: true, String: `{
				"accent": {"primary": "#0066ff", "secondary": "#7c3aed", "highlight": "#ff6b35"},
				"text": {"default": "#111827", "muted": "#6b7280"},
				"border": {"default": "#e5e7eb", "strong": "#9ca3af"},
				"focus": {"outline": "#0066ff"}
			}`},
			ShapeTokens: sql.NullString{Valid: true, String: `{"radius": {"md": 6, "lg": 12}}`},
		},
		{
			// Flat-field theme kept in the old schema on purpose.
			Name:           "Midnight",
			Slug:           "midnight",
			PrimaryColor:   "#1e293b",
			SecondaryColor: "#334155",
			AccentColor:    "#38bdf8",
			HeadingFont:    "Space Grotesk, sans-serif",
			BodyFont:       "Inter, sans-serif",
			PageBackground: "#0f172a",
		},
		{
			Name: "Sunrise",
			Slug: "sunrise",
			ColorTokens: sql.NullString{Valid: true, String: `{
				"accent": {"primary": "#f97316", "alt": "#facc15"},
				"status": {"success": "#15803d", "warning": "#b45309", "error": "#b91c1c"}
			}`},
			TypographyTokens: sql.NullString{Valid: true, String: `{
				"family": {"heading": "Fraunces, Georgia, serif", "body": "Source Sans 3, sans-serif"}
			}`},
			SpacingTokens: sql.NullString{Valid: true, String: `{"md": 18, "lg": 28}`},
			MotionTokens:  sql.NullString{Valid: true, String: `{"duration": {"normal": "240ms"}}`},
		},
	}
}

// Seed creates initial data in the database. Every step is skipped when its
// data already exists, so Seed is safe to run on each start.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	queries := New(db)

	admin, err := seedAdmin(ctx, queries, opts)
	if err != nil {
		return err
	}
	if err := seedSystemThemes(ctx, queries); err != nil {
		return err
	}
	if opts.BootstrapAPIKeyHash != "" {
		if err := seedAPIKey(ctx, queries, admin.ID, opts); err != nil {
			return err
		}
	}
	if opts.SamplePage {
		if err := seedSamplePage(ctx, queries, admin.ID); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, opts SeedOptions) (User, error) {
	user, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("checking for admin user: %w", err)
	}

	password := opts.AdminPassword
	if password == "" {
		password = DefaultAdminPassword
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err = queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         "admin",
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return User{}, fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user", "id", user.ID, "email", user.Email)
	return user, nil
}

func seedSystemThemes(ctx context.Context, queries *Queries) error {
	for _, p := range systemThemes() {
		exists, err := queries.ThemeSlugExists(ctx, p.Slug)
		if err != nil {
			return fmt.Errorf("checking theme %s: %w", p.Slug, err)
		}
		if exists {
			continue
		}

		now := time.Now().UTC()
		p.Scope = "system"
		p.CreatedAt = now
		p.UpdatedAt = now
		theme, err := queries.CreateTheme(ctx, p)
		if err != nil {
			return fmt.Errorf("creating theme %s: %w", p.Slug, err)
		}
		slog.Info("created system theme", "id", theme.ID, "slug", theme.Slug)
	}
	return nil
}

func seedAPIKey(ctx context.Context, queries *Queries, adminID int64, opts SeedOptions) error {
	_, err := queries.GetAPIKeyByHash(ctx, opts.BootstrapAPIKeyHash)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking bootstrap api key: %w", err)
	}

	now := time.Now().UTC()
	key, err := queries.CreateAPIKey(ctx, CreateAPIKeyParams{
		Name:        "bootstrap",
		KeyHash:     opts.BootstrapAPIKeyHash,
		KeyPrefix:   opts.BootstrapAPIKeyPrefix,
		Permissions: `["tokens:read","tokens:write","themes:read","themes:write"]`,
		IsActive:    true,
		CreatedBy:   adminID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("creating bootstrap api key: %w", err)
	}
	slog.Info("created bootstrap api key", "id", key.ID, "prefix", key.KeyPrefix)
	return nil
}

func seedSamplePage(ctx context.Context, queries *Queries, ownerID int64) error {
	const slug = "my-podcast"
	if _, err := queries.GetPageBySlug(ctx, slug); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking sample page: %w", err)
	}

	now := time.Now().UTC()
	page, err := queries.CreatePage(ctx, CreatePageParams{
		Title:          "My Podcast",
		Slug:           slug,
		OwnerID:        ownerID,
		TokenOverrides: "{}",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return fmt.Errorf("creating sample page: %w", err)
	}
	slog.Info("created sample page", "id", page.ID, "slug", page.Slug)
	return nil
}
