// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package catalog fetches the product list from the marketplace catalog
// service.
//
// Client issues a single GET against the configured URL and accepts either
// {"products": [...]} or a bare JSON array. Products may identify themselves
// with "id" or "_id"; missing tags decode as an empty list.
//
// BreakerSource wraps any recommend.CatalogSource in a circuit breaker so a
// failing catalog is not hammered by every cold product cache.
package catalog
