// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/logging"
)

// AccessLog writes one log entry per request. Requests slower than
// slowThreshold and 5xx responses are logged at warn level, the rest at
// debug. A zero threshold disables the slow-request promotion.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func AccessLog(logger zerolog.Logger, slowThreshold time.Duration) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "http_access").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := statusOf(ww)

			reqLogger := logging.FromContext(r.Context(), logger)
			event := reqLogger.Debug()
			switch {
			case status >= http.StatusInternalServerError:
				event = reqLogger.Warn()
			case slowThreshold > 0 && elapsed > slowThreshold:
				event = reqLogger.Warn().Bool("slow", true)
			}

			event.
				Str("method", r.Method).
				Str("route", RoutePattern(r)).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}
