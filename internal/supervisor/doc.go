// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

/*
Package supervisor builds the suture v4 supervision tree for the
recommendation service.

The tree has three child supervisors under a root named "tidemart":

	tidemart
	├── data-layer       catalog refresh
	├── messaging-layer  interaction event consumer
	└── api-layer        HTTP server

A service that keeps failing is restarted with backoff inside its own
layer; the other layers keep running. Supervisor events are logged through
sutureslog on the slog bridge from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCatalogRefreshService(engine.Catalog(), refreshCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, httpCfg, logger))
	return tree.Serve(ctx)
*/
package supervisor
