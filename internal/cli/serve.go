// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/olegiv/castpage/internal/cache"
	"github.com/olegiv/castpage/internal/config"
	"github.com/olegiv/castpage/internal/handler"
	"github.com/olegiv/castpage/internal/handler/api"
	"github.com/olegiv/castpage/internal/middleware"
	"github.com/olegiv/castpage/internal/model"
	"github.com/olegiv/castpage/internal/scheduler"
	"github.com/olegiv/castpage/internal/store"
	"github.com/olegiv/castpage/internal/theme"
)

// requestTimeout bounds every request.
const requestTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serverDeps is everything the router needs.
type serverDeps struct {
	cfg          *config.Config
	db           *sql.DB
	logger       *slog.Logger
	cache        cache.Cacher
	cacheBackend string
}

func runServe(cfg *config.Config) error {
	db, logger, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()
	logger.Info("database ready", "path", cfg.DBPath)

	ctx := context.Background()
	if err := store.Seed(ctx, db, seedOptions(cfg)); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	deps := serverDeps{cfg: cfg, db: db, logger: logger}
	if cfg.CacheTTL > 0 {
		res, err := cache.New(cache.Config{
			RedisURL:         cfg.RedisURL,
			Prefix:           cfg.CachePrefix,
			DefaultTTL:       cfg.CacheTTLDuration(),
			MaxSize:          cfg.CacheMaxSize,
			FallbackToMemory: true,
		})
		if err != nil {
			return fmt.Errorf("initializing cache: %w", err)
		}
		defer func() { _ = res.Cache.Close() }()
		deps.cache = res.Cache
		deps.cacheBackend = res.Backend
		logger.Info("token cache enabled", "backend", res.Backend, "fallback", res.IsFallback, "ttl", cfg.CacheTTLDuration())
	} else {
		logger.Info("token cache disabled")
	}

	if cfg.MaintenanceEnabled {
		sched, err := scheduler.New(db, logger, scheduler.Options{
			Schedule:       cfg.MaintenanceSchedule,
			EventRetention: cfg.EventRetention(),
		})
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	router, err := newRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", buildInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "category", model.EventCategorySystem, "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// seedOptions maps configuration onto seed options.
func seedOptions(cfg *config.Config) store.SeedOptions {
	opts := store.SeedOptions{
		AdminPassword: cfg.AdminPassword,
		SamplePage:    cfg.SeedSamplePage || cfg.DoSeed,
	}
	if cfg.BootstrapAPIKey != "" {
		opts.BootstrapAPIKeyHash = model.HashAPIKey(cfg.BootstrapAPIKey)
		opts.BootstrapAPIKeyPrefix = model.KeyPrefix(cfg.BootstrapAPIKey)
	}
	return opts
}

// newRouter builds the HTTP handler tree.
func newRouter(deps serverDeps) (http.Handler, error) {
	cfg := deps.cfg

	var tokenCache *cache.PageTokenCache
	if deps.cache != nil {
		tokenCache = cache.NewPageTokenCache(deps.cache, cfg.CacheTTLDuration())
	}
	svc := theme.NewService(deps.db, theme.Options{
		Cache:        tokenCache,
		Logger:       deps.logger,
		HistoryLimit: cfg.HistoryLimit,
	})

	docs, err := api.NewDocsHandler("http://" + cfg.ServerAddr())
	if err != nil {
		return nil, fmt.Errorf("initializing api docs: %w", err)
	}
	info := buildInfo
	apiHandler := api.NewHandler(deps.db, svc, deps.logger, &info)
	health := handler.NewHealthHandler(deps.db, deps.cache, deps.cacheBackend, &info)

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Instrument(deps.logger, "/health", "/health/live", "/health/ready", "/metrics"))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	routeCfg := api.DefaultRouteConfig()
	routeCfg.KeyRPS = cfg.APIRateLimitRPS
	routeCfg.KeyBurst = cfg.APIRateLimitBurst
	api.Mount(r, deps.db, apiHandler, docs, routeCfg)
	deps.logger.Info("REST API v1 mounted at " + api.Prefix)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Route not found")
	})
	return r, nil
}
