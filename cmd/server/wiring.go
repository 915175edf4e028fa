// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/api"
	"github.com/tidemart/recommender/internal/catalog"
	"github.com/tidemart/recommender/internal/config"
	"github.com/tidemart/recommender/internal/events"
	"github.com/tidemart/recommender/internal/logging"
	"github.com/tidemart/recommender/internal/recommend"
	"github.com/tidemart/recommender/internal/recommend/storage"
	"github.com/tidemart/recommender/internal/supervisor"
	"github.com/tidemart/recommender/internal/supervisor/services"
)

// interactionStore is a LogStore that owns a resource.
type interactionStore interface {
	recommend.LogStore
	io.Closer
}

func recommendConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		Weights: recommend.ActionWeights{
			Purchase: rc.Weights.Purchase,
			Cart:     rc.Weights.Cart,
			Other:    rc.Weights.Other,
		},
		Bonuses: recommend.ScoreBonuses{
			Category:        rc.Bonuses.Category,
			Tag:             rc.Bonuses.Tag,
			Novelty:         rc.Bonuses.Novelty,
			RelatedCategory: rc.Bonuses.RelatedCategory,
			RelatedTag:      rc.Bonuses.RelatedTag,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit: rc.DefaultLimit,
			MaxLimit:     rc.MaxLimit,
		},
		LogCapacity:      rc.LogCapacity,
		TrendingWindow:   rc.TrendingWindow,
		ExcludePurchased: rc.ExcludePurchased,
		Seed:             rc.Seed,
	}
}

func catalogOptions(cfg *config.Config, version string) catalog.Options {
	return catalog.Options{
		URL:       cfg.Catalog.URL,
		Token:     cfg.Catalog.Token,
		Timeout:   cfg.Catalog.Timeout,
		RateLimit: cfg.Catalog.RateLimit,
		Burst:     cfg.Catalog.Burst,
		UserAgent: "tidemart-recommender/" + version,
	}
}

func breakerOptions(cfg *config.Config) catalog.BreakerOptions {
	opts := catalog.DefaultBreakerOptions()
	b := cfg.Catalog.Breaker
	if b.MaxRequests > 0 {
		opts.MaxRequests = b.MaxRequests
	}
	if b.Interval > 0 {
		opts.Interval = b.Interval
	}
	if b.Timeout > 0 {
		opts.Timeout = b.Timeout
	}
	if b.MinRequests > 0 {
		opts.MinRequests = b.MinRequests
	}
	if b.FailureRatio > 0 {
		opts.FailureRatio = b.FailureRatio
	}
	return opts
}

func subscriberConfig(cfg *config.Config) events.SubscriberConfig {
	ec := cfg.Events
	sc := events.DefaultSubscriberConfig(ec.URL)
	if ec.Backend != "" {
		sc.Backend = ec.Backend
	}
	if ec.QueueGroup != "" {
		sc.QueueGroup = ec.QueueGroup
	}
	if ec.DurableName != "" {
		sc.DurableName = ec.DurableName
	}
	if ec.SubscribersCount > 0 {
		sc.SubscribersCount = ec.SubscribersCount
	}
	if ec.AckWaitTimeout > 0 {
		sc.AckWaitTimeout = ec.AckWaitTimeout
	}
	if ec.MaxDeliver > 0 {
		sc.MaxDeliver = ec.MaxDeliver
	}
	if ec.BufferSize > 0 {
		sc.BufferSize = ec.BufferSize
	}
	sc.StreamName = ec.StreamName
	return sc
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mc := api.DefaultChiMiddlewareConfig()
	sec := cfg.Security
	mc.CORSAllowedOrigins = sec.CORSOrigins
	mc.RateLimitDisabled = sec.RateLimitDisabled
	if sec.RateLimitReqs > 0 {
		mc.RateLimitRequests = sec.RateLimitReqs
	}
	if sec.RateLimitWindow > 0 {
		mc.RateLimitWindow = sec.RateLimitWindow
		mc.WriteRateLimitWindow = sec.RateLimitWindow
	}
	if sec.WriteRateLimitReqs > 0 {
		mc.WriteRateLimitRequests = sec.WriteRateLimitReqs
	}
	return mc
}

func treeConfig(cfg *config.Config) supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	}
}

func refreshConfig(cfg *config.Config) services.CatalogRefreshConfig {
	return services.CatalogRefreshConfig{
		WarmOnStart: cfg.Catalog.WarmOnStart,
		Interval:    cfg.Catalog.RefreshInterval,
		Timeout:     cfg.Catalog.RefreshTimeout,
	}
}

// openStore opens the configured interaction store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func openStore(cfg *config.Config, logger zerolog.Logger) (interactionStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return storage.NewMemoryStore(cfg.Store.Key), nil
	case "", config.StoreBackendBadger:
		s, err := storage.OpenBadgerStore(cfg.Store.Path, cfg.Store.Key, logger)
		if err != nil {
			return nil, fmt.Errorf("open badger store at %s: %w", cfg.Store.Path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// catalogSource builds the catalog client. It returns a nil source when no
// URL is configured; the engine then serves an empty catalog. The breaker
// state is reported through probe when the breaker is enabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func catalogSource(cfg *config.Config, version string, logger zerolog.Logger) (source recommend.CatalogSource, probe api.StatusProbe, err error) {
	if cfg.Catalog.URL == "" {
		logger.Warn().Msg("catalog url not configured, serving an empty catalog")
		return nil, nil, nil
	}

	client, err := catalog.NewClient(catalogOptions(cfg, version), logger)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Catalog.Breaker.Enabled {
		return client, nil, nil
	}

	breaker := catalog.NewBreakerSource(client, breakerOptions(cfg), logger)
	return breaker, breaker.State, nil
}

// newEventsService builds the bus consumer. Config validation admits only
// the nats backend for the server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newEventsService(cfg *config.Config, recorder events.Recorder, logger zerolog.Logger) (*services.EventsService, message.Subscriber, error) {
	sc := subscriberConfig(cfg)
	sub, err := events.NewSubscriber(&sc, logging.NewWatermillAdapter(logger))
	if err != nil {
		return nil, nil, err
	}

	consumer, err := events.NewConsumer(sub, cfg.Events.Topic, recorder, logger)
	if err != nil {
		_ = sub.Close()
		return nil, nil, err
	}
	return services.NewEventsService(consumer, logger), sub, nil
}

func httpServiceConfig(cfg *config.Config) services.HTTPServiceConfig {
	return services.HTTPServiceConfig{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}
