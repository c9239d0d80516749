// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = `id, email, password_hash, role, name, last_login_at, created_at, updated_at`

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Name,
		&i.LastLoginAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :execlastid
INSERT INTO users (email, password_hash, role, name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateUserParams struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	result, err := q.db.ExecContext(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.Role,
		arg.Name,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

type ListUsersParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
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

const countUsers = `-- name: CountUsers :one
SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}
