// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/scheduler"
)

var maintenanceRetentionDays int

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run one maintenance pass: expire API keys and prune old events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		days := cfg.EventRetentionDays
		if cmd.Flags().Changed("retention-days") {
			days = maintenanceRetentionDays
		}
		db, logger, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return runMaintenance(context.Background(), cmd.OutOrStdout(), db, logger, days)
	},
}

func init() {
	rootCmd.AddCommand(maintenanceCmd)
	maintenanceCmd.Flags().IntVar(&maintenanceRetentionDays, "retention-days", 0, "override CASTPAGE_EVENT_RETENTION_DAYS for this run")
}

// maintenanceOutput is the JSON form of a maintenance run.
type maintenanceOutput struct {
	ExpiredKeys  int64 `json:"expired_keys"`
	PrunedEvents int64 `json:"pruned_events"`
}

func runMaintenance(ctx context.Context, out io.Writer, db *sql.DB, logger *slog.Logger, retentionDays int) error {
	if retentionDays < 0 {
		return fmt.Errorf("retention must not be negative, got %d days", retentionDays)
	}
	sched, err := scheduler.New(db, logger, scheduler.Options{
		EventRetention: time.Duration(retentionDays) * 24 * time.Hour,
	})
	if err != nil {
		return err
	}
	res, err := sched.RunOnce(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, maintenanceOutput{ExpiredKeys: res.ExpiredKeys, PrunedEvents: res.PrunedEvents})
	}
	_, err = fmt.Fprintf(out, "expired keys: %d\npruned events: %d\n", res.ExpiredKeys, res.PrunedEvents)
	return err
}
