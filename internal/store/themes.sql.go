// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const themeColumns = `id, name, slug, scope, owner_id, color_tokens, typography_tokens, spacing_tokens, shape_tokens, motion_tokens,
primary_color, secondary_color, accent_color, heading_font, body_font, page_background, created_at, updated_at`

func scanTheme(row rowScanner) (Theme, error) {
	var i Theme
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Scope,
		&i.OwnerID,
		&i.ColorTokens,
		&i.TypographyTokens,
		&i.SpacingTokens,
		&i.ShapeTokens,
		&i.MotionTokens,
		&i.PrimaryColor,
		&i.SecondaryColor,
		&i.AccentColor,
		&i.HeadingFont,
		&i.BodyFont,
		&i.PageBackground,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryThemes(ctx context.Context, query string, args ...interface{}) ([]Theme, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Theme
	for rows.Next() {
		i, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTheme = `-- name: CreateTheme :execlastid
INSERT INTO themes (
    name, slug, scope, owner_id, color_tokens, typography_tokens, spacing_tokens, shape_tokens, motion_tokens,
    primary_color, secondary_color, accent_color, heading_font, body_font, page_background, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateThemeParams struct {
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Scope            string         `json:"scope"`
	OwnerID          sql.NullInt64  `json:"owner_id"`
	ColorTokens      sql.NullString `json:"color_tokens"`
	TypographyTokens sql.NullString `json:"typography_tokens"`
	SpacingTokens    sql.NullString `json:"spacing_tokens"`
	ShapeTokens      sql.NullString `json:"shape_tokens"`
	MotionTokens     sql.NullString `json:"motion_tokens"`
	PrimaryColor     string         `json:"primary_color"`
	SecondaryColor   string         `json:"secondary_color"`
	AccentColor      string         `json:"accent_color"`
	HeadingFont      string         `json:"heading_font"`
	BodyFont         string         `json:"body_font"`
	PageBackground   string         `json:"page_background"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (q *Queries) CreateTheme(ctx context.Context, arg CreateThemeParams) (Theme, error) {
	result, err := q.db.ExecContext(ctx, createTheme,
		arg.Name,
		arg.Slug,
		arg.Scope,
		arg.OwnerID,
		arg.ColorTokens,
		arg.TypographyTokens,
		arg.SpacingTokens,
		arg.ShapeTokens,
		arg.MotionTokens,
		arg.PrimaryColor,
		arg.SecondaryColor,
		arg.AccentColor,
		arg.HeadingFont,
		arg.BodyFont,
		arg.PageBackground,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Theme{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Theme{}, err
	}
	return q.GetThemeByID(ctx, id)
}

const getThemeByID = `-- name: GetThemeByID :one
SELECT ` + themeColumns + ` FROM themes WHERE id = ?`

func (q *Queries) GetThemeByID(ctx context.Context, id int64) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getThemeByID, id))
}

const getThemeBySlug = `-- name: GetThemeBySlug :one
SELECT ` + themeColumns + ` FROM themes WHERE slug = ?`

func (q *Queries) GetThemeBySlug(ctx context.Context, slug string) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getThemeBySlug, slug))
}

const themeSlugExists = `-- name: ThemeSlugExists :one
SELECT EXISTS(SELECT 1 FROM themes WHERE slug = ?)`

func (q *Queries) ThemeSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, themeSlugExists, slug).Scan(&exists)
	return exists, err
}

const listSystemThemes = `-- name: ListSystemThemes :many
SELECT ` + themeColumns + ` FROM themes WHERE scope = 'system' ORDER BY id`

func (q *Queries) ListSystemThemes(ctx context.Context) ([]Theme, error) {
	return q.queryThemes(ctx, listSystemThemes)
}

const listUserThemes = `-- name: ListUserThemes :many
SELECT ` + themeColumns + ` FROM themes WHERE scope = 'user' AND owner_id = ? ORDER BY id`

func (q *Queries) ListUserThemes(ctx context.Context, ownerID int64) ([]Theme, error) {
	return q.queryThemes(ctx, listUserThemes, ownerID)
}

const listVisibleThemes = `-- name: ListVisibleThemes :many
SELECT ` + themeColumns + ` FROM themes
WHERE scope = 'system' OR owner_id = ?
ORDER BY CASE scope WHEN 'system' THEN 0 ELSE 1 END, id`

func (q *Queries) ListVisibleThemes(ctx context.Context, ownerID int64) ([]Theme, error) {
	return q.queryThemes(ctx, listVisibleThemes, ownerID)
}

const getFirstSystemTheme = `-- name: GetFirstSystemTheme :one
SELECT ` + themeColumns + ` FROM themes WHERE scope = 'system' ORDER BY id LIMIT 1`

func (q *Queries) GetFirstSystemTheme(ctx context.Context) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getFirstSystemTheme))
}

const getFirstUserTheme = `-- name: GetFirstUserTheme :one
SELECT ` + themeColumns + ` FROM themes WHERE scope = 'user' AND owner_id = ? ORDER BY id LIMIT 1`

func (q *Queries) GetFirstUserTheme(ctx context.Context, ownerID int64) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getFirstUserTheme, ownerID))
}

const updateThemeName = `-- name: UpdateThemeName :one
UPDATE themes SET name = ?, slug = ?, updated_at = ?
WHERE id = ?`

type UpdateThemeNameParams struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateThemeName(ctx context.Context, arg UpdateThemeNameParams) (Theme, error) {
	if _, err := q.db.ExecContext(ctx, updateThemeName, arg.Name, arg.Slug, arg.UpdatedAt, arg.ID); err != nil {
		return Theme{}, err
	}
	return q.GetThemeByID(ctx, arg.ID)
}

const deleteTheme = `-- name: DeleteTheme :exec
DELETE FROM themes WHERE id = ?`

func (q *Queries) DeleteTheme(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTheme, id)
	return err
}

const countThemes = `-- name: CountThemes :one
SELECT COUNT(*) FROM themes`

func (q *Queries) CountThemes(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countThemes).Scan(&count)
	return count, err
}
