// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultHTTPShutdownTimeout = 10 * time.Second

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// HTTPServiceConfig controls how the API listener drains.
type HTTPServiceConfig struct {
	// Addr is reported in logs only; the server owns the listener.
	Addr string

	// ShutdownTimeout bounds the graceful drain. Connections still open
	// afterwards are closed. Non-positive selects 10s.
	ShutdownTimeout time.Duration
}

// HTTPServerService runs the recommendation API under a supervisor.
// Cancelling the Serve context drains in-flight requests, then force-closes
// whatever is left when the drain deadline passes.
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string
}

// NewHTTPServerService wraps server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, cfg HTTPServiceConfig, logger zerolog.Logger) *HTTPServerService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultHTTPShutdownTimeout
	}
	return &HTTPServerService{
		server:          server,
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger.With().Str("service", "http-server").Logger(),
		name:            "http-server",
	}
}

// Serve implements suture.Service. http.ErrServerClosed is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	h.logger.Info().Str("addr", h.addr).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		return h.drain(ctx, errCh)
	}
}

func (h *HTTPServerService) drain(ctx context.Context, errCh <-chan error) error {
	start := time.Now()

	// ctx is already canceled; shutdown needs its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Warn().Err(err).Dur("timeout", h.shutdownTimeout).
			Msg("HTTP drain incomplete, closing remaining connections")
		if closeErr := h.server.Close(); closeErr != nil {
			h.logger.Error().Err(closeErr).Msg("HTTP server close failed")
		}
		<-errCh
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	<-errCh
	h.logger.Info().Dur("drain", time.Since(start)).Msg("HTTP server drained")
	return ctx.Err()
}

// String implements fmt.Stringer.
func (h *HTTPServerService) String() string {
	return h.name
}
