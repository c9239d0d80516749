// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: expiring API keys and
// pruning the event log.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/store"
)

// DefaultSchedule runs maintenance at the top of every hour.
const DefaultSchedule = "0 * * * *"

// Options configures the maintenance scheduler.
type Options struct {
	Schedule       string        // Standard 5-field cron expression; empty uses DefaultSchedule
	EventRetention time.Duration // Events older than this are deleted; 0 keeps them
}

// Scheduler runs maintenance jobs on a cron schedule.
type Scheduler struct {
	db       *sql.DB
	cron     *cron.Cron
	logger   *slog.Logger
	schedule string
	opts     Options
	now      func() time.Time
}

// New creates a scheduler and validates its cron expression.
func New(db *sql.DB, logger *slog.Logger, opts Options) (*Scheduler, error) {
	schedule := opts.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return &Scheduler{
		db:       db,
		cron:     cron.New(),
		logger:   logger,
		schedule: schedule,
		opts:     opts,
		now:      time.Now,
	}, nil
}

// Start registers the maintenance job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("maintenance failed", "category", model.EventCategorySystem, "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for a running job to finish, then stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Result counts the rows touched by one maintenance run.
type Result struct {
	ExpiredKeys  int64
	PrunedEvents int64
}

// RunOnce performs a single maintenance pass.
func (s *Scheduler) RunOnce(ctx context.Context) (Result, error) {
	queries := store.New(s.db)
	now := s.now().UTC()
	var res Result

	expired, err := queries.DeactivateExpiredAPIKeys(ctx, store.DeactivateExpiredAPIKeysParams{
		UpdatedAt: now,
		Now:       now,
	})
	if err != nil {
		return res, fmt.Errorf("deactivating expired api keys: %w", err)
	}
	res.ExpiredKeys = expired
	if expired > 0 {
		s.logger.Info("deactivated expired api keys", "category", model.EventCategoryAuth, "count", expired)
	}

	if s.opts.EventRetention > 0 {
		pruned, err := queries.DeleteEventsBefore(ctx, now.Add(-s.opts.EventRetention))
		if err != nil {
			return res, fmt.Errorf("pruning events: %w", err)
		}
		res.PrunedEvents = pruned
		if pruned > 0 {
			s.logger.Info("pruned event log", "category", model.EventCategorySystem, "count", pruned)
		}
	}

	return res, nil
}
