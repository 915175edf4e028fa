// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultRefreshTimeout = 30 * time.Second

// CatalogRefresher reloads the product cache. Satisfied by
// *recommend.ProductCache.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// CatalogRefreshConfig controls warm-up and periodic refresh.
type CatalogRefreshConfig struct {
	// WarmOnStart loads the catalog as soon as the service starts instead of
	// on the first request.
	WarmOnStart bool

	// Interval between refreshes. Zero disables periodic refresh and the
	// snapshot lives for the life of the process.
	Interval time.Duration

	// Timeout bounds each fetch.
	Timeout time.Duration
}

// CatalogRefreshService keeps the product cache warm.
type CatalogRefreshService struct {
	catalog CatalogRefresher
	config  CatalogRefreshConfig
	logger  zerolog.Logger
	name    string
}

// NewCatalogRefreshService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogRefreshService(catalog CatalogRefresher, cfg CatalogRefreshConfig, logger zerolog.Logger) *CatalogRefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRefreshTimeout
	}
	return &CatalogRefreshService{
		catalog: catalog,
		config:  cfg,
		logger:  logger.With().Str("service", "catalog_refresh").Logger(),
		name:    "catalog-refresh-service",
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled even when
// periodic refresh is off, so the supervisor does not restart it.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_start", s.config.WarmOnStart).
		Dur("interval", s.config.Interval).
		Msg("catalog refresh service starting")

	if s.config.WarmOnStart {
		s.refresh(ctx, "warm-up")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		s.logger.Info().Msg("catalog refresh service stopping")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx, "scheduled")
		}
	}
}

// refresh never fails the service: a failed fetch keeps the old snapshot.
func (s *CatalogRefreshService) refresh(ctx context.Context, reason string) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.catalog.Refresh(fetchCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Str("reason", reason).Msg("catalog refresh failed, keeping previous snapshot")
		return
	}

	s.logger.Info().
		Str("reason", reason).
		Int("products", n).
		Dur("duration", time.Since(start)).
		Msg("catalog refreshed")
}

// String implements fmt.Stringer.
func (s *CatalogRefreshService) String() string {
	return s.name
}
