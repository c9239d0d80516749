// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import "errors"

// Errors returned by Service. Handlers map them to HTTP statuses.
var (
	ErrPageNotFound    = errors.New("page not found")
	ErrThemeNotFound   = errors.New("theme not found")
	ErrHistoryNotFound = errors.New("history entry not found")
	ErrThemeReadOnly   = errors.New("system themes are read-only")
	ErrInvalidName     = errors.New("invalid theme name")
	ErrInvalidScope    = errors.New("invalid theme scope")
	ErrInvalidGroup    = errors.New("unknown theme token group")
)
