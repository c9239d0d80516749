// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/tokens"
)

// versionOutput is the JSON form of the version command.
type versionOutput struct {
	Version         string `json:"version"`
	GitCommit       string `json:"git_commit"`
	BuildTime       string `json:"build_time"`
	DefaultsVersion string `json:"defaults_version"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, versionOutput{
				Version:         buildInfo.Short(),
				GitCommit:       buildInfo.GitCommit,
				BuildTime:       buildInfo.BuildTime,
				DefaultsVersion: tokens.DefaultVersion,
			})
		}
		_, err := fmt.Fprintf(out, "%s\ndefault tokens %s\n", buildInfo.String(), tokens.DefaultVersion)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
