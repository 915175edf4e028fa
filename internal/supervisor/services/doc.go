// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

/*
Package services adapts recommender components to suture's
Serve(ctx) error lifecycle.

  - HTTPServerService wraps an *http.Server with graceful shutdown.
  - CatalogRefreshService warms the product cache on start and refreshes
    it on an interval. Refresh failures are logged and the previous
    snapshot stays in place.
  - EventsService runs the interaction event consumer. It returns an error
    when the subscription ends unexpectedly so the supervisor restarts it.

Every service implements fmt.Stringer so supervisor logs name it.
*/
package services
