// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// Short returns the version, or "dev" for builds without ldflags.
func (i Info) Short() string {
	if i.Version == "" {
		return "dev"
	}
	return i.Version
}

// String formats the full build description for the version command.
func (i Info) String() string {
	commit := i.GitCommit
	if commit == "" {
		commit = "unknown"
	}
	built := i.BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("castpage %s (commit %s, built %s)", i.Short(), commit, built)
}
