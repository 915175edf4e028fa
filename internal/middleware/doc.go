// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

/*
Package middleware provides the chi middleware stack shared by every HTTP route.

Key Components:

  - RequestID: UUID-based request tracking, mirrored into the logging context
  - PrometheusMetrics: request counters and latency histograms keyed by route pattern
  - AccessLog: one structured zerolog line per request, warn level above a threshold

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger, 500*time.Millisecond))
	r.Use(middleware.PrometheusMetrics)

Route labels come from chi's RoutePattern so that path parameters such as
product IDs do not create unbounded metric cardinality.
*/
package middleware
