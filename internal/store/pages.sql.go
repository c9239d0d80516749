// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, title, slug, owner_id, theme_id, token_overrides, created_at, updated_at`

func scanPage(row rowScanner) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.OwnerID,
		&i.ThemeID,
		&i.TokenOverrides,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPage = `-- name: CreatePage :execlastid
INSERT INTO pages (title, slug, owner_id, theme_id, token_overrides, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

type CreatePageParams struct {
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	OwnerID        int64         `json:"owner_id"`
	ThemeID        sql.NullInt64 `json:"theme_id"`
	TokenOverrides string        `json:"token_overrides"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	result, err := q.db.ExecContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.OwnerID,
		arg.ThemeID,
		arg.TokenOverrides,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Page{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Page{}, err
	}
	return q.GetPageByID(ctx, id)
}

const getPageByID = `-- name: GetPageByID :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageBySlug, slug))
}

const getPageForOwner = `-- name: GetPageForOwner :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ? AND owner_id = ?`

type GetPageForOwnerParams struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id"`
}

func (q *Queries) GetPageForOwner(ctx context.Context, arg GetPageForOwnerParams) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageForOwner, arg.ID, arg.OwnerID))
}

const listPageIDsByTheme = `-- name: ListPageIDsByTheme :many
SELECT id FROM pages WHERE theme_id = ?`

func (q *Queries) ListPageIDsByTheme(ctx context.Context, themeID sql.NullInt64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listPageIDsByTheme, themeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updatePageTokenOverrides = `-- name: UpdatePageTokenOverrides :exec
UPDATE pages SET token_overrides = ?, updated_at = ? WHERE id = ?`

type UpdatePageTokenOverridesParams struct {
	TokenOverrides string    `json:"token_overrides"`
	UpdatedAt      time.Time `json:"updated_at"`
	ID             int64     `json:"id"`
}

func (q *Queries) UpdatePageTokenOverrides(ctx context.Context, arg UpdatePageTokenOverridesParams) error {
	_, err := q.db.ExecContext(ctx, updatePageTokenOverrides, arg.TokenOverrides, arg.UpdatedAt, arg.ID)
	return err
}

const updatePageTheme = `-- name: UpdatePageTheme :exec
UPDATE pages SET theme_id = ?, updated_at = ? WHERE id = ?`

type UpdatePageThemeParams struct {
	ThemeID   sql.NullInt64 `json:"theme_id"`
	UpdatedAt time.Time     `json:"updated_at"`
	ID        int64         `json:"id"`
}

func (q *Queries) UpdatePageTheme(ctx context.Context, arg UpdatePageThemeParams) error {
	_, err := q.db.ExecContext(ctx, updatePageTheme, arg.ThemeID, arg.UpdatedAt, arg.ID)
	return err
}
