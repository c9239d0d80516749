// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strconv"
)

// NullInt64FromPtr maps nil to NULL.
func NullInt64FromPtr(ptr *int64) sql.NullInt64 {
	if ptr != nil {
		return sql.NullInt64{Int64: *ptr, Valid: true}
	}
	return sql.NullInt64{}
}

// NullInt64FromValue creates a valid sql.NullInt64 from an int64 value.
func NullInt64FromValue(val int64) sql.NullInt64 {
	return sql.NullInt64{Int64: val, Valid: true}
}

// PtrFromNullInt64 is the inverse of NullInt64FromPtr.
func PtrFromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// ParseID parses a positive database id. Zero, negative and malformed input
// all return ok=false.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// NullStringFromValue maps the empty string to NULL.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
