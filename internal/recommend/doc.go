// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package recommend implements the marketplace's personalised product ranking.
//
// # Components
//
//   - InteractionLog: a capped, FIFO list of (user, product, action) events,
//     persisted through a LogStore after every write.
//   - ProductCache: a lazily fetched snapshot of the catalog, obtained from a
//     CatalogSource. Fetch failures yield an empty catalog, never an error.
//   - Engine: holds the log and the cache and answers Recommend, Related,
//     Trending and ByCategory queries.
//
// # Scoring
//
// For a user with history, every event is resolved against the catalog and
// contributes an action weight (purchase 3, cart 2, anything else 1) to the
// product's category and to each of its tags. Categories and tags are then
// ranked by accumulated weight. A product scores
//
//	10 × (n − i)  for a category at rank i of n
//	 5 × (m − j)  for each tag at rank j of m
//	 2            when the user never interacted with it
//
// and results are stable-sorted by descending score. Users without history get
// a random sample of the catalog ("discovery").
//
// # Failure semantics
//
// No query returns an error. Catalog and persistence failures are logged,
// counted in Prometheus and degrade to empty or randomised output.
//
// # Thread Safety
//
// The engine, log and cache are safe for concurrent use. The log is a single
// process-wide list guarded by a mutex; it is not partitioned per user.
package recommend
