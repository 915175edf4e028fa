// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

/*
Package config loads service configuration with Koanf v2.

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/tidemart/config.yaml or /etc/tidemart/config.yml, first match wins
 3. Environment variables

Environment variables use short names such as CATALOG_URL, HTTP_PORT or
LOG_LEVEL. Each may also be written with a TIDEMART_ prefix
(TIDEMART_CATALOG_URL); unknown variables are ignored. Slice settings such
as CORS_ORIGINS take comma-separated values.

Example config.yaml:

	server:
	  port: 8080
	catalog:
	  url: https://catalog.internal/api/products
	  refresh_interval: 15m
	store:
	  backend: badger
	  path: /data/interactions
	recommend:
	  trending_window: 168h
	  weights:
	    purchase: 3
	    cart: 2
	    other: 1
	events:
	  enabled: true
	  backend: nats
	  url: nats://nats:4222

The package has no dependencies on other internal packages; cmd/server
converts sections into component options.
*/
package config
