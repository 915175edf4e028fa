// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tidemart/recommender/internal/metrics"
	"github.com/tidemart/recommender/internal/recommend"
)

// BreakerOptions configures the circuit breaker around a catalog source.
type BreakerOptions struct {
	// Name labels metrics and logs. Default: "catalog-api".
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// MinRequests is the sample size required before tripping.
	MinRequests uint32

	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// DefaultBreakerOptions returns the production breaker settings.
func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		Name:         "catalog-api",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// BreakerSource guards a CatalogSource with a circuit breaker. While the
// breaker is open, fetches fail immediately with gobreaker.ErrOpenState.
type BreakerSource struct {
	source recommend.CatalogSource
	cb     *gobreaker.CircuitBreaker[[]recommend.Product]
	name   string
	logger zerolog.Logger
}

var _ recommend.CatalogSource = (*BreakerSource)(nil)

// NewBreakerSource wraps source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerSource(source recommend.CatalogSource, opts BreakerOptions, logger zerolog.Logger) *BreakerSource {
	def := DefaultBreakerOptions()
	if opts.Name == "" {
		opts.Name = def.Name
	}
	if opts.MaxRequests == 0 {
		opts.MaxRequests = def.MaxRequests
	}
	if opts.MinRequests == 0 {
		opts.MinRequests = def.MinRequests
	}
	if opts.FailureRatio <= 0 {
		opts.FailureRatio = def.FailureRatio
	}

	b := &BreakerSource{
		source: source,
		name:   opts.Name,
		logger: logger.With().Str("component", "catalog_breaker").Str("breaker", opts.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(opts.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(opts.Name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[[]recommend.Product](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= opts.FailureRatio
			if trip {
				b.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening catalog circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit state transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return b
}

// FetchProducts implements recommend.CatalogSource.
func (b *BreakerSource) FetchProducts(ctx context.Context) ([]recommend.Product, error) {
	products, err := b.cb.Execute(func() ([]recommend.Product, error) {
		return b.source.FetchProducts(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest(b.name, "rejected")
			return nil, fmt.Errorf("catalog unavailable: %w", err)
		}
		metrics.RecordBreakerRequest(b.name, "failure")
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.RecordBreakerRequest(b.name, "success")
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return products, nil
}

// State returns the breaker state name: "closed", "half-open" or "open".
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}
