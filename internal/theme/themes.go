// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/tokens"
	"github.com/olegiv/castpage/internal/util"
)

// MaxNameLength is the longest theme name accepted, in characters.
const MaxNameLength = 100

var namePolicy = bluemonday.StrictPolicy()

// SanitizeName strips markup from a theme name and collapses whitespace.
func SanitizeName(name string) string {
	clean := html.UnescapeString(namePolicy.Sanitize(name))
	return strings.Join(strings.Fields(clean), " ")
}

func validName(raw string) (string, error) {
	name := SanitizeName(raw)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// CreateThemeInput is a new user theme. Groups are keyed by theme group name
// (color, typography, spacing, shape, motion).
type CreateThemeInput struct {
	Name   string
	Groups map[string]tokens.Tree
	Legacy tokens.LegacyFields
}

// List returns the themes of one scope visible to the actor. System themes
// come first in the "all" scope.
func (s *Service) List(ctx context.Context, actor model.Actor, scope string) ([]model.Theme, error) {
	var (
		rows []store.Theme
		err  error
	)
	switch scope {
	case model.ThemeScopeSystem:
		rows, err = s.queries.ListSystemThemes(ctx)
	case model.ThemeScopeUser:
		rows, err = s.queries.ListUserThemes(ctx, actor.UserID)
	case model.ThemeScopeAll, "":
		rows, err = s.queries.ListVisibleThemes(ctx, actor.UserID)
	default:
		return nil, ErrInvalidScope
	}
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}

	themes := make([]model.Theme, 0, len(rows))
	for _, r := range rows {
		themes = append(themes, model.ThemeFromStore(r))
	}
	return themes, nil
}

// Get returns a theme the actor may see.
func (s *Service) Get(ctx context.Context, actor model.Actor, id int64) (model.Theme, error) {
	_, th, err := s.load(ctx, actor, id)
	return th, err
}

// load returns both the stored row and the decoded theme. Themes the actor
// may not see read as missing.
func (s *Service) load(ctx context.Context, actor model.Actor, id int64) (store.Theme, model.Theme, error) {
	t, err := s.queries.GetThemeByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Theme{}, model.Theme{}, ErrThemeNotFound
	}
	if err != nil {
		return store.Theme{}, model.Theme{}, fmt.Errorf("loading theme %d: %w", id, err)
	}
	th := model.ThemeFromStore(t)
	if !th.VisibleTo(actor) {
		return store.Theme{}, model.Theme{}, ErrThemeNotFound
	}
	return t, th, nil
}

// Create stores a new theme owned by the actor.
func (s *Service) Create(ctx context.Context, actor model.Actor, in CreateThemeInput) (model.Theme, error) {
	name, err := validName(in.Name)
	if err != nil {
		return model.Theme{}, err
	}

	params := store.CreateThemeParams{
		Name:           name,
		Scope:          model.ThemeScopeUser,
		OwnerID:        util.NullInt64FromValue(actor.UserID),
		PrimaryColor:   in.Legacy.PrimaryColor,
		SecondaryColor: in.Legacy.SecondaryColor,
		AccentColor:    in.Legacy.AccentColor,
		HeadingFont:    in.Legacy.HeadingFont,
		BodyFont:       in.Legacy.BodyFont,
		PageBackground: in.Legacy.PageBackground,
	}
	for group, tree := range in.Groups {
		col, err := groupColumn(&params, group)
		if err != nil {
			return model.Theme{}, err
		}
		doc, err := json.Marshal(tokens.Merge(tokens.Tree{}, tree))
		if err != nil {
			return model.Theme{}, fmt.Errorf("encoding %s group: %w", group, err)
		}
		*col = util.NullStringFromValue(string(doc))
	}

	return s.insertTheme(ctx, params)
}

// groupColumn returns the params field that stores a theme group.
func groupColumn(p *store.CreateThemeParams, group string) (*sql.NullString, error) {
	switch group {
	case tokens.ThemeGroupColor:
		return &p.ColorTokens, nil
	case tokens.ThemeGroupTypography:
		return &p.TypographyTokens, nil
	case tokens.ThemeGroupSpacing:
		return &p.SpacingTokens, nil
	case tokens.ThemeGroupShape:
		return &p.ShapeTokens, nil
	case tokens.ThemeGroupMotion:
		return &p.MotionTokens, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroup, group)
	}
}

// Clone copies a visible theme, including its stored groups as-is, into a
// new theme owned by the actor. An empty name derives one from the source.
func (s *Service) Clone(ctx context.Context, actor model.Actor, id int64, name string) (model.Theme, error) {
	src, _, err := s.load(ctx, actor, id)
	if err != nil {
		return model.Theme{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = src.Name + " (copy)"
	}
	clean, err := validName(name)
	if err != nil {
		return model.Theme{}, err
	}

	return s.insertTheme(ctx, store.CreateThemeParams{
		Name:             clean,
		Scope:            model.ThemeScopeUser,
		OwnerID:          util.NullInt64FromValue(actor.UserID),
		ColorTokens:      src.ColorTokens,
		TypographyTokens: src.TypographyTokens,
		SpacingTokens:    src.SpacingTokens,
		ShapeTokens:      src.ShapeTokens,
		MotionTokens:     src.MotionTokens,
		PrimaryColor:     src.PrimaryColor,
		SecondaryColor:   src.SecondaryColor,
		AccentColor:      src.AccentColor,
		HeadingFont:      src.HeadingFont,
		BodyFont:         src.BodyFont,
		PageBackground:   src.PageBackground,
	})
}

func (s *Service) insertTheme(ctx context.Context, params store.CreateThemeParams) (model.Theme, error) {
	slug, err := util.UniqueSlug(util.Slugify(params.Name), "theme", func(c string) (bool, error) {
		return s.queries.ThemeSlugExists(ctx, c)
	})
	if err != nil {
		return model.Theme{}, fmt.Errorf("generating slug: %w", err)
	}

	now := s.now()
	params.Slug = slug
	params.CreatedAt = now
	params.UpdatedAt = now

	t, err := s.queries.CreateTheme(ctx, params)
	if err != nil {
		return model.Theme{}, fmt.Errorf("creating theme: %w", err)
	}
	// A new user theme can become the owner's fallback for unthemed pages.
	s.invalidateAll(ctx)
	s.logger.Info("theme created", "theme_id", t.ID, "slug", t.Slug, "user_id", params.OwnerID.Int64)
	return model.ThemeFromStore(t), nil
}

// writable loads a theme the actor may modify.
func (s *Service) writable(ctx context.Context, actor model.Actor, id int64) (model.Theme, error) {
	th, err := s.Get(ctx, actor, id)
	if err != nil {
		return model.Theme{}, err
	}
	if th.IsSystem() {
		return model.Theme{}, ErrThemeReadOnly
	}
	if !th.OwnedBy(actor) {
		return model.Theme{}, ErrThemeNotFound
	}
	return th, nil
}

// Rename changes a user theme's name and regenerates its slug.
func (s *Service) Rename(ctx context.Context, actor model.Actor, id int64, name string) (model.Theme, error) {
	th, err := s.writable(ctx, actor, id)
	if err != nil {
		return model.Theme{}, err
	}
	clean, err := validName(name)
	if err != nil {
		return model.Theme{}, err
	}

	slug, err := util.UniqueSlug(util.Slugify(clean), "theme", func(c string) (bool, error) {
		if c == th.Slug {
			return false, nil
		}
		return s.queries.ThemeSlugExists(ctx, c)
	})
	if err != nil {
		return model.Theme{}, fmt.Errorf("generating slug: %w", err)
	}

	t, err := s.queries.UpdateThemeName(ctx, store.UpdateThemeNameParams{
		Name:      clean,
		Slug:      slug,
		UpdatedAt: s.now(),
		ID:        th.ID,
	})
	if err != nil {
		return model.Theme{}, fmt.Errorf("renaming theme %d: %w", th.ID, err)
	}
	s.invalidateAll(ctx)
	return model.ThemeFromStore(t), nil
}

// Delete removes a user theme. Pages that selected it fall back to the
// default precedence.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id int64) error {
	th, err := s.writable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteTheme(ctx, th.ID); err != nil {
		return fmt.Errorf("deleting theme %d: %w", th.ID, err)
	}
	s.invalidateAll(ctx)
	s.logger.Info("theme deleted", "theme_id", th.ID, "user_id", actor.UserID)
	return nil
}

// SelectTheme sets the page's theme. A nil themeID restores the default
// precedence.
func (s *Service) SelectTheme(ctx context.Context, actor model.Actor, pageID int64, themeID *int64) (*model.PageTokens, error) {
	p, err := s.page(ctx, actor, pageID)
	if err != nil {
		return nil, err
	}
	if themeID != nil {
		if _, err := s.Get(ctx, actor, *themeID); err != nil {
			return nil, err
		}
	}

	if err := s.queries.UpdatePageTheme(ctx, store.UpdatePageThemeParams{
		ThemeID:   util.NullInt64FromPtr(themeID),
		UpdatedAt: s.now(),
		ID:        p.ID,
	}); err != nil {
		return nil, fmt.Errorf("selecting theme: %w", err)
	}
	s.invalidatePage(ctx, p.ID)
	return s.Current(ctx, actor, p.ID)
}
