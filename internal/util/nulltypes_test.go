// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullInt64Conversions(t *testing.T) {
	id := int64(42)

	assert.Equal(t, sql.NullInt64{Int64: 42, Valid: true}, NullInt64FromPtr(&id))
	assert.Equal(t, sql.NullInt64{}, NullInt64FromPtr(nil))
	assert.Equal(t, sql.NullInt64{Int64: 0, Valid: true}, NullInt64FromValue(0))

	back := PtrFromNullInt64(NullInt64FromPtr(&id))
	if assert.NotNil(t, back) {
		assert.Equal(t, id, *back)
		assert.NotSame(t, &id, back)
	}
	assert.Nil(t, PtrFromNullInt64(sql.NullInt64{Int64: 7}))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1", 1, true},
		{"9007199254740993", 9007199254740993, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"", 0, false},
		{"12abc", 0, false},
		{" 5", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullStringFromValue(t *testing.T) {
	assert.Equal(t, sql.NullString{}, NullStringFromValue(""))
	assert.Equal(t, sql.NullString{String: `{"a":1}`, Valid: true}, NullStringFromValue(`{"a":1}`))
	assert.Equal(t, sql.NullString{String: "  ", Valid: true}, NullStringFromValue("  "))
}
