// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"log/slog"
	"os"

	"github.com/olegiv/castpage/internal/cli"
	"github.com/olegiv/castpage/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if err := cli.Execute(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
