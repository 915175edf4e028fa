// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

/*
Package main is the entry point for the Tidemart recommendation server.

The server keeps a bounded log of shopper interactions, caches the product
catalog fetched from the catalog API, and answers personalised, related,
trending and per-category product queries over a JSON REST API.

# Process Layout

	tidemart
	├── data-layer
	│   └── catalog-refresh-service  warm-up and periodic catalog refresh
	├── messaging-layer
	│   └── events-consumer-service  interaction events (optional)
	└── api-layer
	    └── http-server              /api/v1 and /metrics

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, TIDEMART_* environment)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Interaction store: in-memory or BadgerDB
 4. Catalog client: HTTP with rate limiting and a circuit breaker
 5. Recommendation engine with Prometheus observer
 6. Event consumer (events.enabled)
 7. HTTP router and supervisor tree

# Configuration

Common environment variables:

	TIDEMART_CATALOG_URL    product listing endpoint (empty serves an empty catalog)
	TIDEMART_HTTP_PORT      listen port (default 8080)
	TIDEMART_STORE_BACKEND  badger (default) or memory
	TIDEMART_STORE_PATH     BadgerDB directory
	TIDEMART_LOG_LEVEL      trace, debug, info, warn, error
	CONFIG_PATH             explicit config file

# Build Tags

	go build -tags nats ./cmd/server   # NATS JetStream event backend

# Signals

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests, and the interaction
store is closed last.
*/
package main
