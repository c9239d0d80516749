// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Apply pending database migrations. Use the down and status subcommands to roll back or inspect.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawDB(func(ctx context.Context, db *sql.DB) error {
			if err := store.Migrate(db); err != nil {
				return err
			}
			return printSchemaVersion(ctx, cmd.OutOrStdout(), db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawDB(func(ctx context.Context, db *sql.DB) error {
			if err := store.MigrateDown(db); err != nil {
				return err
			}
			return printSchemaVersion(ctx, cmd.OutOrStdout(), db)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawDB(func(ctx context.Context, db *sql.DB) error {
			return printSchemaVersion(ctx, cmd.OutOrStdout(), db)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// withRawDB opens the configured database without applying migrations.
func withRawDB(fn func(ctx context.Context, db *sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(newTextHandler(cfg)))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return fn(context.Background(), db)
}

// schemaStatus is the JSON form of the migrate commands' output.
type schemaStatus struct {
	Version int64 `json:"version"`
}

func printSchemaVersion(ctx context.Context, out io.Writer, db *sql.DB) error {
	v, err := store.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, schemaStatus{Version: v})
	}
	_, err = fmt.Fprintf(out, "schema version: %d\n", v)
	return err
}
