// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
)

var (
	apikeyUserID  int64
	apikeyName    string
	apikeyPerms   []string
	apikeyExpires time.Duration
	apikeyID      int64
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key acting for a user",
	Long:  "Create an API key acting for a user. The raw key is printed once and cannot be recovered.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *sql.DB) error {
			return createAPIKey(ctx, cmd.OutOrStdout(), db, apiKeyRequest{
				UserID:      apikeyUserID,
				Name:        apikeyName,
				Permissions: apikeyPerms,
				ExpiresIn:   apikeyExpires,
			})
		})
	},
}

var apikeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's API keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *sql.DB) error {
			return listAPIKeys(ctx, cmd.OutOrStdout(), db, apikeyUserID)
		})
	},
}

var apikeyRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Deactivate an API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *sql.DB) error {
			return revokeAPIKey(ctx, cmd.OutOrStdout(), db, apikeyID)
		})
	},
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
	apikeyCmd.AddCommand(apikeyCreateCmd)
	apikeyCmd.AddCommand(apikeyListCmd)
	apikeyCmd.AddCommand(apikeyRevokeCmd)

	apikeyCreateCmd.Flags().Int64VarP(&apikeyUserID, "user", "u", 0, "user ID the key acts for (required)")
	apikeyCreateCmd.Flags().StringVarP(&apikeyName, "name", "n", "", "key name (required)")
	apikeyCreateCmd.Flags().StringSliceVar(&apikeyPerms, "perm", model.AllPermissions(), "permission to grant (repeatable)")
	apikeyCreateCmd.Flags().DurationVar(&apikeyExpires, "expires-in", 0, "key lifetime (e.g. 720h); 0 never expires")
	_ = apikeyCreateCmd.MarkFlagRequired("user")
	_ = apikeyCreateCmd.MarkFlagRequired("name")

	apikeyListCmd.Flags().Int64VarP(&apikeyUserID, "user", "u", 0, "user ID (required)")
	_ = apikeyListCmd.MarkFlagRequired("user")

	apikeyRevokeCmd.Flags().Int64Var(&apikeyID, "id", 0, "API key ID (required)")
	_ = apikeyRevokeCmd.MarkFlagRequired("id")
}

// withDB opens the migrated database and runs fn.
func withDB(fn func(ctx context.Context, db *sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, _, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return fn(context.Background(), db)
}

// apiKeyRequest describes a key to create.
type apiKeyRequest struct {
	UserID      int64
	Name        string
	Permissions []string
	ExpiresIn   time.Duration
}

// createdAPIKey is the JSON form of a new key, including the raw secret.
type createdAPIKey struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Key         string     `json:"key"`
	Prefix      string     `json:"prefix"`
	UserID      int64      `json:"user_id"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func createAPIKey(ctx context.Context, out io.Writer, db *sql.DB, req apiKeyRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("--name must not be empty")
	}
	if len(req.Permissions) == 0 {
		return errors.New("at least one --perm is required")
	}
	if !model.ValidPermissions(req.Permissions) {
		return fmt.Errorf("unknown permission in %v; valid: %s", req.Permissions, strings.Join(model.AllPermissions(), ", "))
	}
	if req.ExpiresIn < 0 {
		return errors.New("--expires-in must not be negative")
	}

	queries := store.New(db)
	user, err := queries.GetUserByID(ctx, req.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %d not found", req.UserID)
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	rawKey, prefix, err := model.GenerateAPIKey()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	now := time.Now().UTC()
	params := store.CreateAPIKeyParams{
		Name:        req.Name,
		KeyHash:     model.HashAPIKey(rawKey),
		KeyPrefix:   prefix,
		Permissions: model.PermissionsToJSON(req.Permissions),
		IsActive:    true,
		CreatedBy:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	result := createdAPIKey{Name: req.Name, Key: rawKey, Prefix: prefix, UserID: user.ID, Permissions: req.Permissions}
	if req.ExpiresIn > 0 {
		expires := now.Add(req.ExpiresIn)
		params.ExpiresAt = sql.NullTime{Time: expires, Valid: true}
		result.ExpiresAt = &expires
	}

	key, err := queries.CreateAPIKey(ctx, params)
	if err != nil {
		return fmt.Errorf("creating api key: %w", err)
	}
	result.ID = key.ID

	if jsonOutput {
		return writeJSON(out, result)
	}
	_, _ = fmt.Fprintf(out, "Created API key %d for %s\n", key.ID, user.Email)
	_, _ = fmt.Fprintf(out, "  Key:         %s\n", rawKey)
	_, _ = fmt.Fprintf(out, "  Permissions: %s\n", strings.Join(req.Permissions, ", "))
	_, _ = fmt.Fprintln(out, "Store the key now; it is not shown again.")
	return nil
}

// apiKeyView is a stored key without its hash.
type apiKeyView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Prefix      string     `json:"prefix"`
	Permissions []string   `json:"permissions"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func listAPIKeys(ctx context.Context, out io.Writer, db *sql.DB, userID int64) error {
	keys, err := store.New(db).ListAPIKeysByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing api keys: %w", err)
	}

	views := make([]apiKeyView, 0, len(keys))
	for _, k := range keys {
		views = append(views, apiKeyView{
			ID:          k.ID,
			Name:        k.Name,
			Prefix:      k.KeyPrefix,
			Permissions: model.ParsePermissions(k.Permissions),
			Active:      k.IsActive,
			ExpiresAt:   nullTimePtr(k.ExpiresAt),
			LastUsedAt:  nullTimePtr(k.LastUsedAt),
		})
	}
	if jsonOutput {
		return writeJSON(out, views)
	}

	optionalTime := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return formatTime(*t)
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.Name,
			v.Prefix,
			strings.Join(v.Permissions, ","),
			formatYesNo(v.Active),
			optionalTime(v.ExpiresAt),
			optionalTime(v.LastUsedAt),
		})
	}
	return writeTable(out, []string{"ID", "NAME", "PREFIX", "PERMISSIONS", "ACTIVE", "EXPIRES", "LAST USED"}, rows)
}

func revokeAPIKey(ctx context.Context, out io.Writer, db *sql.DB, id int64) error {
	queries := store.New(db)
	key, err := queries.GetAPIKeyByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("api key %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("loading api key: %w", err)
	}
	if err := queries.DeactivateAPIKey(ctx, store.DeactivateAPIKeyParams{UpdatedAt: time.Now().UTC(), ID: key.ID}); err != nil {
		return fmt.Errorf("revoking api key: %w", err)
	}
	_, err = fmt.Fprintf(out, "Revoked API key %d (%s)\n", key.ID, key.KeyPrefix)
	return err
}
