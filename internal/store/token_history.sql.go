// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const historyColumns = `seq, id, page_id, overrides, action, created_by, created_at`

func scanTokenOverrideHistory(row rowScanner) (TokenOverrideHistory, error) {
	var i TokenOverrideHistory
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.PageID,
		&i.Overrides,
		&i.Action,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const createTokenOverrideHistory = `-- name: CreateTokenOverrideHistory :one
INSERT INTO token_override_history (id, page_id, overrides, action, created_by, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateTokenOverrideHistoryParams struct {
	ID        string        `json:"id"`
	PageID    int64         `json:"page_id"`
	Overrides string        `json:"overrides"`
	Action    string        `json:"action"`
	CreatedBy sql.NullInt64 `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

func (q *Queries) CreateTokenOverrideHistory(ctx context.Context, arg CreateTokenOverrideHistoryParams) (TokenOverrideHistory, error) {
	if _, err := q.db.ExecContext(ctx, createTokenOverrideHistory,
		arg.ID,
		arg.PageID,
		arg.Overrides,
		arg.Action,
		arg.CreatedBy,
		arg.CreatedAt,
	); err != nil {
		return TokenOverrideHistory{}, err
	}
	return q.GetTokenOverrideHistory(ctx, GetTokenOverrideHistoryParams{ID: arg.ID, PageID: arg.PageID})
}

const getTokenOverrideHistory = `-- name: GetTokenOverrideHistory :one
SELECT ` + historyColumns + ` FROM token_override_history WHERE id = ? AND page_id = ?`

type GetTokenOverrideHistoryParams struct {
	ID     string `json:"id"`
	PageID int64  `json:"page_id"`
}

func (q *Queries) GetTokenOverrideHistory(ctx context.Context, arg GetTokenOverrideHistoryParams) (TokenOverrideHistory, error) {
	return scanTokenOverrideHistory(q.db.QueryRowContext(ctx, getTokenOverrideHistory, arg.ID, arg.PageID))
}

const listTokenOverrideHistory = `-- name: ListTokenOverrideHistory :many
SELECT ` + historyColumns + ` FROM token_override_history
WHERE page_id = ?
ORDER BY created_at DESC, seq DESC
LIMIT ?`

type ListTokenOverrideHistoryParams struct {
	PageID int64 `json:"page_id"`
	Limit  int64 `json:"limit"`
}

func (q *Queries) ListTokenOverrideHistory(ctx context.Context, arg ListTokenOverrideHistoryParams) ([]TokenOverrideHistory, error) {
	rows, err := q.db.QueryContext(ctx, listTokenOverrideHistory, arg.PageID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TokenOverrideHistory
	for rows.Next() {
		i, err := scanTokenOverrideHistory(rows)
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

const countTokenOverrideHistory = `-- name: CountTokenOverrideHistory :one
SELECT COUNT(*) FROM token_override_history WHERE page_id = ?`

func (q *Queries) CountTokenOverrideHistory(ctx context.Context, pageID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTokenOverrideHistory, pageID).Scan(&count)
	return count, err
}

const pruneTokenOverrideHistory = `-- name: PruneTokenOverrideHistory :execrows
DELETE FROM token_override_history
WHERE page_id = ?
  AND seq NOT IN (
    SELECT seq FROM token_override_history
    WHERE page_id = ?
    ORDER BY created_at DESC, seq DESC
    LIMIT ?
  )`

type PruneTokenOverrideHistoryParams struct {
	PageID int64 `json:"page_id"`
	Keep   int64 `json:"keep"`
}

// PruneTokenOverrideHistory keeps the Keep newest rows for a page and
// returns how many were deleted.
func (q *Queries) PruneTokenOverrideHistory(ctx context.Context, arg PruneTokenOverrideHistoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, pruneTokenOverrideHistory, arg.PageID, arg.PageID, arg.Keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
