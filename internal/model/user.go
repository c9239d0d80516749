// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records shared between the store, the
// theme service and the API: users, API keys, themes, token history and
// events.
package model

import (
	"time"

	"github.com/olegiv/castpage/internal/store"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Actor identifies who performs an operation. Pages are only visible to
// their owner, unless the actor is an admin.
type Actor struct {
	UserID int64
	Admin  bool
}

// CanAccess reports whether the actor may read or write a resource owned by
// ownerID.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.Admin || a.UserID == ownerID
}

// User is the public view of a user account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin returns true if the user has admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the actor for u.
func (u User) Actor() Actor {
	return Actor{UserID: u.ID, Admin: u.IsAdmin()}
}

// UserFromStore converts a stored user, dropping the password hash.
func UserFromStore(u store.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
