// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli implements the castpage command tree.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/config"
	"github.com/olegiv/castpage/internal/logging"
	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/version"
)

var (
	buildInfo  = version.Info{}
	jsonOutput bool
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "castpage",
	Short:         "Design token engine for podcaster pages",
	Long:          "castpage resolves design tokens for podcaster pages from defaults, themes and per-page overrides.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading CASTPAGE_* variables")
}

// Execute runs the command tree with the given build information.
func Execute(info version.Info) error {
	buildInfo = info
	return rootCmd.Execute()
}

// loadConfig reads the optional dotenv file and parses the environment.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newTextHandler returns the stdout handler every logger is built on.
func newTextHandler(cfg *config.Config) slog.Handler {
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
}

// openDB opens and migrates the configured database, then upgrades the
// default logger to also write WARN and ERROR records to the event log.
func openDB(cfg *config.Config) (*sql.DB, *slog.Logger, error) {
	slog.SetDefault(slog.New(newTextHandler(cfg)))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Debug("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	logger := slog.New(logging.NewEventLogHandler(newTextHandler(cfg), db))
	slog.SetDefault(logger)
	return db, logger, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
