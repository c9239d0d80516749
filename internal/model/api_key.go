// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// API permissions
const (
	PermissionTokensRead  = "tokens:read"
	PermissionTokensWrite = "tokens:write"
	PermissionThemesRead  = "themes:read"
	PermissionThemesWrite = "themes:write"
)

// APIKeyPrefixLength is how many leading characters of a raw key are kept
// in clear text for identification.
const APIKeyPrefixLength = 8

// AllPermissions returns all available API permissions.
func AllPermissions() []string {
	return []string{
		PermissionTokensRead,
		PermissionTokensWrite,
		PermissionThemesRead,
		PermissionThemesWrite,
	}
}

// GenerateAPIKey generates a new random API key.
// Returns the raw key (to show user once) and the key prefix.
func GenerateAPIKey() (rawKey string, prefix string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	rawKey = "cp_" + base64.RawURLEncoding.EncodeToString(buf)
	return rawKey, rawKey[:APIKeyPrefixLength], nil
}

// HashAPIKey creates a SHA-256 hash of the API key for storage.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// KeyPrefix returns the display prefix of a raw key.
func KeyPrefix(rawKey string) string {
	if len(rawKey) <= APIKeyPrefixLength {
		return rawKey
	}
	return rawKey[:APIKeyPrefixLength]
}

// ParsePermissions decodes a stored permission list. Empty or invalid input
// yields an empty list.
func ParsePermissions(raw string) []string {
	perms := []string{}
	if raw == "" || raw == "[]" {
		return perms
	}
	_ = json.Unmarshal([]byte(raw), &perms)
	return perms
}

// HasPermission reports whether the stored list grants perm.
func HasPermission(raw, perm string) bool {
	return slices.Contains(ParsePermissions(raw), perm)
}

// PermissionsToJSON converts a slice of permissions to a JSON string.
func PermissionsToJSON(perms []string) string {
	if len(perms) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(perms)
	return string(data)
}

// ValidPermissions reports whether every entry is a known permission.
func ValidPermissions(perms []string) bool {
	all := AllPermissions()
	for _, p := range perms {
		if !slices.Contains(all, p) {
			return false
		}
	}
	return true
}
