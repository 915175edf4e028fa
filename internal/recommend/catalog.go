// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoCatalogSource is reported when a cache has no source to fetch from.
var ErrNoCatalogSource = errors.New("no catalog source configured")

// ProductCache holds a snapshot of the catalog. The first EnsureLoaded call
// fetches it; later calls reuse the snapshot until Invalidate or Refresh.
type ProductCache struct {
	mu       sync.Mutex
	products []Product
	loaded   bool
	loadedAt time.Time

	source   CatalogSource
	logger   zerolog.Logger
	observer Observer
	now      func() time.Time
}

// NewProductCache creates an empty cache backed by source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProductCache(source CatalogSource, logger zerolog.Logger) *ProductCache {
	return newProductCache(source, logger, nopObserver{}, time.Now)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newProductCache(source CatalogSource, logger zerolog.Logger, obs Observer, now func() time.Time) *ProductCache {
	return &ProductCache{
		source:   source,
		logger:   logger.With().Str("component", "product_cache").Logger(),
		observer: obs,
		now:      now,
	}
}

// EnsureLoaded returns the cached products, fetching them on first use.
// A failed fetch returns an empty slice and leaves the cache unloaded so the
// next call tries again. The returned slice must not be modified.
func (c *ProductCache) EnsureLoaded(ctx context.Context) []Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.products
	}

	products, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("catalog fetch failed, serving empty product set")
		return []Product{}
	}

	c.store(products)
	return c.products
}

// Refresh fetches a new snapshot and swaps it in. On failure the previous
// snapshot stays in place and the error is returned for the caller to report.
func (c *ProductCache) Refresh(ctx context.Context) (int, error) {
	products, err := c.fetch(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.store(products)
	n := len(c.products)
	c.mu.Unlock()
	return n, nil
}

// Invalidate drops the snapshot; the next EnsureLoaded fetches again.
func (c *ProductCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = nil
	c.loaded = false
	c.loadedAt = time.Time{}
}

// Snapshot returns the cached products without fetching.
func (c *ProductCache) Snapshot() (products []Product, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products, c.loaded
}

// LoadedAt returns when the current snapshot was fetched, or the zero time.
func (c *ProductCache) LoadedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedAt
}

func (c *ProductCache) fetch(ctx context.Context) ([]Product, error) {
	if c.source == nil {
		c.observer.CatalogFetched(0, ErrNoCatalogSource)
		return nil, ErrNoCatalogSource
	}

	products, err := c.source.FetchProducts(ctx)
	c.observer.CatalogFetched(len(products), err)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// store must be called with c.mu held.
func (c *ProductCache) store(products []Product) {
	clean := make([]Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := products[i]
		if _, dup := seen[p.ID]; dup || p.ID == "" {
			continue
		}
		seen[p.ID] = struct{}{}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		clean = append(clean, p)
	}

	if dropped := len(products) - len(clean); dropped > 0 {
		c.logger.Warn().Int("dropped", dropped).Msg("ignored catalog products with empty or duplicate IDs")
	}

	c.products = clean
	c.loaded = true
	c.loadedAt = c.now()
	c.logger.Info().Int("products", len(clean)).Msg("product cache loaded")
}
