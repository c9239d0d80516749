// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, level, category, message, user_id, metadata, created_at`

func scanEvent(row rowScanner) (Event, error) {
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.Category,
		&i.Message,
		&i.UserID,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const createEvent = `-- name: CreateEvent :execlastid
INSERT INTO events (level, category, message, user_id, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateEventParams struct {
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	result, err := q.db.ExecContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.UserID,
		arg.Metadata,
		arg.CreatedAt,
	)
	if err != nil {
		return Event{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Event{}, err
	}
	return q.GetEventByID(ctx, id)
}

const getEventByID = `-- name: GetEventByID :one
SELECT ` + eventColumns + ` FROM events WHERE id = ?`

func (q *Queries) GetEventByID(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, getEventByID, id))
}

const listEvents = `-- name: ListEvents :many
SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

type ListEventsParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		i, err := scanEvent(rows)
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

const countEventsByCategory = `-- name: CountEventsByCategory :one
SELECT COUNT(*) FROM events WHERE category = ?`

func (q *Queries) CountEventsByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEventsByCategory, category).Scan(&count)
	return count, err
}

const deleteEventsBefore = `-- name: DeleteEventsBefore :execrows
DELETE FROM events WHERE created_at < ?`

func (q *Queries) DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEventsBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
