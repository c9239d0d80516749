// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the events table so token and theme problems stay auditable.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward (default: WARN)
	attrs   []slog.Attr
	group   string
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates an EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	if name != "" {
		if h.group != "" {
			name = h.group + "." + name
		}
		clone.group = name
	}
	return &clone
}

// qualify prefixes attribute keys with the open group, if any.
func (h *EventLogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

// writeEvent stores one record. The background context keeps the event even
// when the request that logged it has been cancelled.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	attrs := append([]slog.Attr(nil), h.attrs...)
	var own []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)
		return true
	})
	attrs = append(attrs, h.qualify(own)...)

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     slogLevelToEventLevel(r.Level),
		Category:  extractCategory(r.Message, attrs),
		Message:   r.Message,
		UserID:    extractUserID(attrs),
		Metadata:  extractMetadata(attrs),
		CreatedAt: r.Time.UTC(),
	})
}

// slogLevelToEventLevel converts a slog.Level to an event level.
func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory uses an explicit "category" attribute, else infers one
// from the message.
func extractCategory(msg string, attrs []slog.Attr) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == "category" {
			if c := attrs[i].Value.String(); c != "" {
				return c
			}
		}
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "auth") || strings.Contains(msg, "permission"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "history") || strings.Contains(msg, "rollback") || strings.Contains(msg, "prune"):
		return model.EventCategoryHistory
	case strings.Contains(msg, "token") || strings.Contains(msg, "override"):
		return model.EventCategoryTokens
	case strings.Contains(msg, "theme"):
		return model.EventCategoryThemes
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

// extractUserID picks up a "user_id" attribute when present.
func extractUserID(attrs []slog.Attr) sql.NullInt64 {
	for _, a := range attrs {
		if a.Key != "user_id" {
			continue
		}
		v := a.Value.Resolve()
		switch v.Kind() {
		case slog.KindInt64:
			return sql.NullInt64{Int64: v.Int64(), Valid: true}
		case slog.KindUint64:
			return sql.NullInt64{Int64: int64(v.Uint64()), Valid: true}
		}
	}
	return sql.NullInt64{}
}

// extractMetadata renders the attributes, minus category, as a JSON object
// of strings.
func extractMetadata(attrs []slog.Attr) string {
	meta := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		meta[a.Key] = a.Value.Resolve().String()
	}
	if len(meta) == 0 {
		return "{}"
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}
