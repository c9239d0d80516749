// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared across packages: slug
// generation and conversions between pointers and sql null types.
package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// MaxSlugLength caps generated slugs.
const MaxSlugLength = 64

// Slugify converts a string to a URL-friendly slug. Accents are stripped
// first; any remaining non-Latin script is transliterated to ASCII.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = strings.Join(strings.Fields(result), "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxSlugLength {
		result = strings.TrimRight(result[:MaxSlugLength], "-")
	}
	return result
}

// UniqueSlug returns base, or base with the smallest numeric suffix for
// which taken reports false. An empty base becomes fallback.
func UniqueSlug(base, fallback string, taken func(string) (bool, error)) (string, error) {
	if base == "" {
		base = fallback
	}
	candidate := base
	for n := 2; ; n++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	return !strings.Contains(s, "--")
}
