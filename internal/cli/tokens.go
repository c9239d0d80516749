// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/theme"
	"github.com/olegiv/castpage/internal/tokens"
)

var (
	tokensPageID int64
	tokensPath   string
)

// cliActor runs commands with full access; the operator owns the database.
var cliActor = model.Actor{Admin: true}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Inspect a page's resolved design tokens",
}

var tokensResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print a page's resolved variables, or trace one path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *theme.Service) error {
			if strings.TrimSpace(tokensPath) != "" {
				return printResolution(ctx, cmd.OutOrStdout(), svc, tokensPageID, tokensPath)
			}
			return printVariables(ctx, cmd.OutOrStdout(), svc, tokensPageID)
		})
	},
}

var tokensCSSCmd = &cobra.Command{
	Use:   "css",
	Short: "Print a page's tokens as a CSS declaration block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *theme.Service) error {
			return printCSS(ctx, cmd.OutOrStdout(), svc, tokensPageID)
		})
	},
}

var tokensHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List a page's override snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *theme.Service) error {
			return printHistory(ctx, cmd.OutOrStdout(), svc, tokensPageID)
		})
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensResolveCmd)
	tokensCmd.AddCommand(tokensCSSCmd)
	tokensCmd.AddCommand(tokensHistoryCmd)

	tokensCmd.PersistentFlags().Int64VarP(&tokensPageID, "page", "p", 0, "page ID (required)")
	_ = tokensCmd.MarkPersistentFlagRequired("page")
	tokensResolveCmd.Flags().StringVar(&tokensPath, "path", "", "dotted token path to trace (e.g. semantic.focus.ring)")
}

// withService opens the database and runs fn against an uncached service.
func withService(fn func(ctx context.Context, svc *theme.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, logger, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc := theme.NewService(db, theme.Options{Logger: logger, HistoryLimit: cfg.HistoryLimit})
	return fn(context.Background(), svc)
}

// pageError turns a missing page into a readable message.
func pageError(err error, pageID int64) error {
	if errors.Is(err, theme.ErrPageNotFound) {
		return fmt.Errorf("page %d not found", pageID)
	}
	return err
}

func printVariables(ctx context.Context, out io.Writer, svc *theme.Service, pageID int64) error {
	pt, err := svc.Current(ctx, cliActor, pageID)
	if err != nil {
		return pageError(err, pageID)
	}
	if jsonOutput {
		return writeJSON(out, pt)
	}

	themeName := "defaults"
	if pt.Theme != nil {
		themeName = pt.Theme.Name
		if !pt.Theme.Selected {
			themeName += " (fallback)"
		}
	}
	_, _ = fmt.Fprintf(out, "page %d  theme %s  defaults %s  etag %s\n\n", pt.PageID, themeName, pt.DefaultsVersion, pt.ETag)

	rows := make([][]string, 0, len(pt.Variables))
	for _, v := range pt.Variables {
		rows = append(rows, []string{v.Name, v.Value})
	}
	return writeTable(out, []string{"VARIABLE", "VALUE"}, rows)
}

func printResolution(ctx context.Context, out io.Writer, svc *theme.Service, pageID int64, path string) error {
	res, err := svc.ResolvePath(ctx, cliActor, pageID, path)
	if err != nil {
		return pageError(err, pageID)
	}
	if jsonOutput {
		return writeJSON(out, res)
	}

	_, _ = fmt.Fprintln(out, strings.Join(res.Chain, " -> "))
	switch {
	case res.Cycle:
		_, _ = fmt.Fprintln(out, "cycle detected; value unresolved")
	case res.Dangling:
		_, _ = fmt.Fprintln(out, "dangling reference; value unresolved")
	case !res.Found:
		_, _ = fmt.Fprintln(out, "not found")
	default:
		_, _ = fmt.Fprintf(out, "= %s\n", formatTokenValue(res.Value))
	}
	return nil
}

func printCSS(ctx context.Context, out io.Writer, svc *theme.Service, pageID int64) error {
	css, _, err := svc.CSS(ctx, cliActor, pageID)
	if err != nil {
		return pageError(err, pageID)
	}
	_, err = io.WriteString(out, css)
	return err
}

func printHistory(ctx context.Context, out io.Writer, svc *theme.Service, pageID int64) error {
	entries, err := svc.History(ctx, cliActor, pageID)
	if err != nil {
		return pageError(err, pageID)
	}
	if jsonOutput {
		return writeJSON(out, entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		by := "-"
		if e.CreatedBy != nil {
			by = strconv.FormatInt(*e.CreatedBy, 10)
		}
		rows = append(rows, []string{e.ID, e.Action, strconv.Itoa(e.Overrides.LeafCount()), by, formatTime(e.CreatedAt)})
	}
	return writeTable(out, []string{"ID", "ACTION", "LEAVES", "USER", "CREATED"}, rows)
}

// formatTokenValue prints strings bare and everything else as JSON would.
func formatTokenValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	default:
		if t, ok := val.(tokens.Tree); ok {
			return fmt.Sprintf("{%d leaves}", t.LeafCount())
		}
		return fmt.Sprint(val)
	}
}
