// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinerec/internal/api"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/events"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/middleware"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// perfMonCapacity is the number of request samples kept for /stats.
const perfMonCapacity = 10_000

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_driver", cfg.Database.Driver).
		Str("cache_backend", cfg.Cache.Backend).
		Str("events_backend", cfg.Events.Backend).
		Msg("Starting CineRec")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collab, err := initCollaborators(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize collaborator clients")
	}
	defer func() {
		if err := collab.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedding store")
		}
	}()

	bus, err := events.NewBus(cfg.Events, logging.NewWatermillAdapter(logging.WithComponent("events")))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	db, err := database.New(&cfg.Database,
		database.WithClassifier(collab.Classifier),
		database.WithPublisher(bus),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("dialect", string(db.Dialect())).Msg("Database initialized")

	results, err := initResultCache(ctx, cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize result cache")
	}

	engine, err := initRecommend(cfg, recommendDeps{
		store:      db,
		versions:   db,
		normalizer: collab.Normalizer,
		embedder:   collab.Embedder,
	}, results, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	perfMon := middleware.NewPerformanceMonitor(perfMonCapacity, middleware.DefaultSlowRequestThreshold)
	handler := api.NewHandler(db, engine,
		api.WithPerformanceMonitor(perfMon),
		api.WithVersion(version),
	)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security),
		api.WithRouterPerformanceMonitor(perfMon),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if interval := cfg.Recommend.ClusterRefreshInterval; interval > 0 {
		tree.AddDataService(services.NewClusterWarmer(engine, services.ClusterWarmerConfig{
			K:             cfg.Recommend.NumClusters,
			Interval:      interval,
			WarmOnStartup: true,
		}, logging.WithComponent("supervisor")))
		logging.Info().Dur("interval", interval).Msg("Topic cluster warmer added to supervisor tree")
	}

	if results != nil {
		tree.AddMessagingService(events.NewCacheInvalidator(bus, engine))
		logging.Info().Str("backend", bus.Backend()).Msg("Cache invalidator added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Some services did not stop cleanly")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Unstopped service")
		}
	}

	if closer, ok := results.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result cache")
		}
	}

	logging.Info().Msg("Server stopped")
}
