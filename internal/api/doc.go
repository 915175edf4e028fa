// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints:

	POST /api/v1/interactions                          record an interaction (201)
	GET  /api/v1/interactions?user_id=                 a user's logged interactions
	GET  /api/v1/recommendations?user_id=&limit=       personalised recommendations
	GET  /api/v1/users/{userID}/preferences            ranked categories and tags
	GET  /api/v1/products/{productID}/related?limit=   products similar to one product
	GET  /api/v1/trending?limit=                       most interacted products this week
	GET  /api/v1/categories/{category}/products        catalog products in a category
	POST /api/v1/catalog/refresh                       reload the product cache
	GET  /api/v1/health, /health/live, /health/ready   health probes
	GET  /metrics                                      Prometheus exposition

Every JSON response uses the models.APIResponse envelope. The recommendation
endpoints never fail because of catalog or storage trouble: they answer with
an empty or random list, and the degradation is visible in logs and metrics.

Middleware order is request ID, real IP, panic recovery, CORS and access log
globally, then per-group rate limits, security headers and Prometheus
instrumentation.
*/
package api
