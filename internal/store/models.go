// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type ApiKey struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	KeyHash     string       `json:"key_hash"`
	KeyPrefix   string       `json:"key_prefix"`
	Permissions string       `json:"permissions"`
	LastUsedAt  sql.NullTime `json:"last_used_at"`
	ExpiresAt   sql.NullTime `json:"expires_at"`
	IsActive    bool         `json:"is_active"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type Page struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	OwnerID        int64         `json:"owner_id"`
	ThemeID        sql.NullInt64 `json:"theme_id"`
	TokenOverrides string        `json:"token_overrides"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type Theme struct {
	ID               int64          `json:"id"`
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

type TokenOverrideHistory struct {
	Seq       int64         `json:"seq"`
	ID        string        `json:"id"`
	PageID    int64         `json:"page_id"`
	Overrides string        `json:"overrides"`
	Action    string        `json:"action"`
	CreatedBy sql.NullInt64 `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
