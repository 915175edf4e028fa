// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidemart/recommender/internal/api"
	"github.com/tidemart/recommender/internal/config"
	"github.com/tidemart/recommender/internal/logging"
	"github.com/tidemart/recommender/internal/metrics"
	"github.com/tidemart/recommender/internal/recommend"
	"github.com/tidemart/recommender/internal/supervisor"
	"github.com/tidemart/recommender/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

//nolint:gocyclo // sequential startup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("store_backend", cfg.Store.Backend).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Tidemart recommender")

	if cfg.HasWildcardCORS() {
		logger.Warn().Msg("CORS allows any origin (security.cors_origins contains *)")
	}
	if cfg.Store.Backend == config.StoreBackendMemory {
		logger.Warn().Msg("Interaction store is in memory; history is lost on restart")
	}
	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (TIDEMART_DISABLE_RATE_LIMIT=true)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing interaction store")
		}
	}()

	source, breakerProbe, err := catalogSource(cfg, version, logger)
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(ctx, recommendConfig(cfg), store, source, logger,
		recommend.WithObserver(metrics.NewRecorder()))
	if err != nil {
		return err
	}
	logger.Info().
		Int("restored_interactions", engine.Interactions().Len()).
		Int("log_capacity", engine.Interactions().Capacity()).
		Msg("Recommendation engine initialized")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig(cfg))
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewCatalogRefreshService(engine.Catalog(), refreshConfig(cfg), logger))

	if cfg.Events.Enabled {
		eventsSvc, sub, err := newEventsService(cfg, engine, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := sub.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing event subscriber")
			}
		}()
		tree.AddMessagingService(eventsSvc)
		logger.Info().Str("backend", cfg.Events.Backend).Str("topic", cfg.Events.Topic).Msg("Event consumer enabled")
	}

	handlerOpts := []api.HandlerOption{
		api.WithVersion(version),
		api.WithRefreshTimeout(cfg.Catalog.RefreshTimeout),
	}
	if breakerProbe != nil {
		handlerOpts = append(handlerOpts, api.WithStatusProbe("catalog_breaker", breakerProbe))
	}
	handler := api.NewHandler(engine, logger, handlerOpts...)
	router := api.NewRouter(handler, api.NewChiMiddleware(middlewareConfig(cfg)), logger, cfg.Server.SlowRequestThreshold)

	server := newHTTPServer(cfg, router.SetupChi())
	tree.AddAPIService(services.NewHTTPServerService(server, httpServiceConfig(cfg), logger))

	logger.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		logger.Warn().Err(err).Msg("Could not collect unstopped service report")
	}
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logger.Info().Msg("Application stopped gracefully")
	return nil
}
