// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package metrics defines the Prometheus instrumentation of the recommender.
//
// All collectors are registered on the default registry through promauto and
// exposed by the HTTP server at /metrics.
//
// # Families
//
//   - api_*: request counts, latency and in-flight requests per route
//   - recommend_*: interactions recorded, log size, persistence failures,
//     cold starts and query latency per operation
//   - catalog_*: catalog fetch outcomes and product count
//   - circuit_breaker_*: breaker state and transitions for outbound calls
//   - events_*: marketplace bus messages consumed, by outcome
//
// Recorder adapts these collectors to recommend.Observer so the engine can be
// instrumented without importing this package.
package metrics
