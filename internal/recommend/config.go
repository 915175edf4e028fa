// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tunables of the engine.
type Config struct {
	// Weights is the per-action contribution to category/tag preferences.
	Weights ActionWeights `json:"weights"`

	// Bonuses are the score increments applied when ranking products.
	Bonuses ScoreBonuses `json:"bonuses"`

	// Limits bounds the size of returned lists.
	Limits LimitsConfig `json:"limits"`

	// LogCapacity is the maximum number of events kept in the interaction log.
	// Default: 100.
	LogCapacity int `json:"log_capacity"`

	// TrendingWindow is how far back Trending counts interactions.
	// Default: 7 days.
	TrendingWindow time.Duration `json:"trending_window"`

	// ExcludePurchased drops products the user already bought from
	// personalised results. Default: true.
	ExcludePurchased bool `json:"exclude_purchased"`

	// Seed seeds the discovery shuffle. Zero seeds from the clock, which makes
	// cold-start output non-deterministic.
	Seed int64 `json:"seed"`
}

// ActionWeights is the preference weight per action. Actions without a
// dedicated field use Other.
type ActionWeights struct {
	Purchase float64 `json:"purchase"`
	Cart     float64 `json:"cart"`
	Other    float64 `json:"other"`
}

// For returns the weight of action a.
func (w ActionWeights) For(a Action) float64 {
	switch a {
	case ActionPurchase:
		return w.Purchase
	case ActionCart:
		return w.Cart
	default:
		return w.Other
	}
}

// ScoreBonuses are the multipliers used by Recommend and Related.
type ScoreBonuses struct {
	// Category is multiplied by the category's inverse rank position.
	Category float64 `json:"category"`

	// Tag is multiplied by each matching tag's inverse rank position.
	Tag float64 `json:"tag"`

	// Novelty is added for products the user never interacted with.
	Novelty float64 `json:"novelty"`

	// RelatedCategory is added by Related when categories match.
	RelatedCategory float64 `json:"related_category"`

	// RelatedTag is added by Related for each shared tag.
	RelatedTag float64 `json:"related_tag"`
}

// LimitsConfig bounds the limit argument of queries.
type LimitsConfig struct {
	// DefaultLimit replaces a non-positive limit. Default: 10.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit. Default: 100.
	MaxLimit int `json:"max_limit"`
}

// DefaultConfig returns the weighting heuristic used by the storefront.
func DefaultConfig() *Config {
	return &Config{
		Weights: ActionWeights{
			Purchase: 3,
			Cart:     2,
			Other:    1,
		},
		Bonuses: ScoreBonuses{
			Category:        10,
			Tag:             5,
			Novelty:         2,
			RelatedCategory: 20,
			RelatedTag:      10,
		},
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		LogCapacity:      100,
		TrendingWindow:   7 * 24 * time.Hour,
		ExcludePurchased: true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Purchase < 0 || c.Weights.Cart < 0 || c.Weights.Other < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.Bonuses.Category < 0 || c.Bonuses.Tag < 0 || c.Bonuses.Novelty < 0 {
		return fmt.Errorf("bonuses must be non-negative, got %+v", c.Bonuses)
	}
	if c.Bonuses.RelatedCategory < 0 || c.Bonuses.RelatedTag < 0 {
		return fmt.Errorf("related bonuses must be non-negative, got %+v", c.Bonuses)
	}
	if c.LogCapacity < 1 {
		return fmt.Errorf("log_capacity must be positive, got %d", c.LogCapacity)
	}
	if c.TrendingWindow <= 0 {
		return fmt.Errorf("trending_window must be positive, got %v", c.TrendingWindow)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	return nil
}

// Clone returns a copy of the configuration. All fields are values.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// clampLimit applies DefaultLimit and MaxLimit to a requested limit.
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		return c.Limits.DefaultLimit
	}
	if limit > c.Limits.MaxLimit {
		return c.Limits.MaxLimit
	}
	return limit
}
