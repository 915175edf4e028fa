// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/recommend"
)

// StatusProbe reports the state of a dependency for the health endpoint,
// for example the catalog circuit breaker.
type StatusProbe func() string

// Handler serves the recommendation endpoints.
type Handler struct {
	engine         *recommend.Engine
	logger         zerolog.Logger
	version        string
	startTime      time.Time
	refreshTimeout time.Duration
	probes         map[string]StatusProbe
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		h.version = version
	}
}

// WithRefreshTimeout bounds POST /api/v1/catalog/refresh.
func WithRefreshTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.refreshTimeout = d
		}
	}
}

// WithStatusProbe adds a named component to the health report.
func WithStatusProbe(name string, probe StatusProbe) HandlerOption {
	return func(h *Handler) {
		if probe != nil {
			h.probes[name] = probe
		}
	}
}

// NewHandler creates a handler backed by engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *recommend.Engine, logger zerolog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:         engine,
		logger:         logger.With().Str("component", "api").Logger(),
		startTime:      time.Now(),
		refreshTimeout: 30 * time.Second,
		probes:         make(map[string]StatusProbe),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
