// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Engine owns the interaction log and the product cache and answers ranking
// queries over them. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	log     *InteractionLog
	catalog *ProductCache

	observer Observer
	now      func() time.Time

	// Discovery shuffle source, protected by rngMu.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// Option customises an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	observer Observer
	now      func() time.Time
}

// WithObserver installs an instrumentation observer.
func WithObserver(obs Observer) Option {
	return func(o *engineOptions) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock overrides the time source used for timestamps and the trending
// window.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewEngine creates an engine. The interaction log is hydrated from store
// immediately; the catalog is fetched lazily on first query.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(ctx context.Context, cfg *Config, store LogStore, source CatalogSource, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := engineOptions{observer: nopObserver{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger = logger.With().Str("component", "recommend").Logger()

	return &Engine{
		config:   cfg.Clone(),
		logger:   logger,
		log:      newInteractionLog(ctx, store, cfg.LogCapacity, logger, o.observer, o.now),
		catalog:  newProductCache(source, logger, o.observer, o.now),
		observer: o.observer,
		now:      o.now,
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation shuffling
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Interactions returns the engine's interaction log.
func (e *Engine) Interactions() *InteractionLog {
	return e.log
}

// Catalog returns the engine's product cache.
func (e *Engine) Catalog() *ProductCache {
	return e.catalog
}

// Record appends an interaction to the log.
func (e *Engine) Record(ctx context.Context, userID, productID string, action Action) InteractionEvent {
	return e.log.Record(ctx, userID, productID, action)
}

// Recommend returns up to limit products for userID.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) []Product {
	return e.RecommendDetailed(ctx, userID, limit).Products
}

// RecommendDetailed is Recommend plus the mode that produced the list.
// Users without history get a random sample of the catalog.
func (e *Engine) RecommendDetailed(ctx context.Context, userID string, limit int) Result {
	start := time.Now()
	limit = e.config.clampLimit(limit)

	products := e.catalog.EnsureLoaded(ctx)
	history := e.log.ForUser(userID)

	var result Result
	if len(history) == 0 {
		e.observer.ColdStart()
		result = Result{Products: e.discover(products, limit), Mode: ModeDiscovery}
	} else {
		scored := ScoreForUser(e.config, history, products)
		result = Result{Products: topProducts(scored, limit), Mode: ModePersonalized}
	}

	e.observer.QueryCompleted("recommend", time.Since(start), len(result.Products))
	e.logger.Debug().
		Str("user_id", userID).
		Int("history", len(history)).
		Str("mode", string(result.Mode)).
		Int("results", len(result.Products)).
		Msg("recommendations generated")
	return result
}

// Related returns up to limit products similar to productID. An unknown
// product yields an empty list.
func (e *Engine) Related(ctx context.Context, productID string, limit int) []Product {
	start := time.Now()
	limit = e.config.clampLimit(limit)

	products := e.catalog.EnsureLoaded(ctx)
	ref, ok := indexProducts(products)[productID]
	if !ok {
		e.observer.QueryCompleted("related", time.Since(start), 0)
		return []Product{}
	}

	out := topProducts(ScoreRelated(e.config, ref, products), limit)
	e.observer.QueryCompleted("related", time.Since(start), len(out))
	return out
}

// Trending returns up to limit catalog products ranked by interaction count
// over the trending window.
func (e *Engine) Trending(ctx context.Context, limit int) []Product {
	start := time.Now()
	limit = e.config.clampLimit(limit)

	products := e.catalog.EnsureLoaded(ctx)
	since := e.now().Add(-e.config.TrendingWindow)

	out := topProducts(ScoreTrending(e.log.Events(), products, since), limit)
	e.observer.QueryCompleted("trending", time.Since(start), len(out))
	return out
}

// ByCategory returns the catalog products whose category equals category, in
// catalog order.
func (e *Engine) ByCategory(ctx context.Context, category string) []Product {
	start := time.Now()

	products := e.catalog.EnsureLoaded(ctx)
	out := make([]Product, 0)
	for i := range products {
		if products[i].Category == category {
			out = append(out, products[i])
		}
	}

	e.observer.QueryCompleted("by_category", time.Since(start), len(out))
	return out
}

// Preferences returns the ranked category and tag preferences of userID.
func (e *Engine) Preferences(ctx context.Context, userID string) Preferences {
	products := e.catalog.EnsureLoaded(ctx)
	return RankPreferences(e.log.ForUser(userID), products, e.config.Weights)
}

// discover returns min(limit, len(products)) distinct products in random order.
func (e *Engine) discover(products []Product, limit int) []Product {
	shuffled := make([]Product, len(products))
	copy(shuffled, products)

	e.rngMu.Lock()
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	e.rngMu.Unlock()

	if limit < len(shuffled) {
		shuffled = shuffled[:limit]
	}
	return shuffled
}
