// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const apiKeyColumns = `id, name, key_hash, key_prefix, permissions, last_used_at, expires_at, is_active, created_by, created_at, updated_at`

func scanAPIKey(row rowScanner) (ApiKey, error) {
	var i ApiKey
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.KeyHash,
		&i.KeyPrefix,
		&i.Permissions,
		&i.LastUsedAt,
		&i.ExpiresAt,
		&i.IsActive,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createAPIKey = `-- name: CreateAPIKey :execlastid
INSERT INTO api_keys (name, key_hash, key_prefix, permissions, expires_at, is_active, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateAPIKeyParams struct {
	Name        string       `json:"name"`
	KeyHash     string       `json:"key_hash"`
	KeyPrefix   string       `json:"key_prefix"`
	Permissions string       `json:"permissions"`
	ExpiresAt   sql.NullTime `json:"expires_at"`
	IsActive    bool         `json:"is_active"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (q *Queries) CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (ApiKey, error) {
	result, err := q.db.ExecContext(ctx, createAPIKey,
		arg.Name,
		arg.KeyHash,
		arg.KeyPrefix,
		arg.Permissions,
		arg.ExpiresAt,
		arg.IsActive,
		arg.CreatedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return ApiKey{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return ApiKey{}, err
	}
	return q.GetAPIKeyByID(ctx, id)
}

const getAPIKeyByID = `-- name: GetAPIKeyByID :one
SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = ?`

func (q *Queries) GetAPIKeyByID(ctx context.Context, id int64) (ApiKey, error) {
	return scanAPIKey(q.db.QueryRowContext(ctx, getAPIKeyByID, id))
}

const getAPIKeyByHash = `-- name: GetAPIKeyByHash :one
SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = ?`

func (q *Queries) GetAPIKeyByHash(ctx context.Context, keyHash string) (ApiKey, error) {
	return scanAPIKey(q.db.QueryRowContext(ctx, getAPIKeyByHash, keyHash))
}

const listAPIKeysByUser = `-- name: ListAPIKeysByUser :many
SELECT ` + apiKeyColumns + ` FROM api_keys WHERE created_by = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListAPIKeysByUser(ctx context.Context, createdBy int64) ([]ApiKey, error) {
	rows, err := q.db.QueryContext(ctx, listAPIKeysByUser, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ApiKey
	for rows.Next() {
		i, err := scanAPIKey(rows)
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

const updateAPIKeyLastUsed = `-- name: UpdateAPIKeyLastUsed :exec
UPDATE api_keys SET last_used_at = ? WHERE id = ?`

type UpdateAPIKeyLastUsedParams struct {
	LastUsedAt sql.NullTime `json:"last_used_at"`
	ID         int64        `json:"id"`
}

func (q *Queries) UpdateAPIKeyLastUsed(ctx context.Context, arg UpdateAPIKeyLastUsedParams) error {
	_, err := q.db.ExecContext(ctx, updateAPIKeyLastUsed, arg.LastUsedAt, arg.ID)
	return err
}

const deactivateAPIKey = `-- name: DeactivateAPIKey :exec
UPDATE api_keys SET is_active = 0, updated_at = ? WHERE id = ?`

type DeactivateAPIKeyParams struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) DeactivateAPIKey(ctx context.Context, arg DeactivateAPIKeyParams) error {
	_, err := q.db.ExecContext(ctx, deactivateAPIKey, arg.UpdatedAt, arg.ID)
	return err
}

const deactivateExpiredAPIKeys = `-- name: DeactivateExpiredAPIKeys :execrows
UPDATE api_keys SET is_active = 0, updated_at = ?
WHERE is_active = 1 AND expires_at IS NOT NULL AND expires_at < ?`

type DeactivateExpiredAPIKeysParams struct {
	UpdatedAt time.Time `json:"updated_at"`
	Now       time.Time `json:"now"`
}

func (q *Queries) DeactivateExpiredAPIKeys(ctx context.Context, arg DeactivateExpiredAPIKeysParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deactivateExpiredAPIKeys, arg.UpdatedAt, arg.Now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
