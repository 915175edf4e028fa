// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package cache holds small in-memory structures shared by the service.
//
// Deduper remembers recently seen keys with LRU eviction and a TTL. The
// event consumer uses it to drop redelivered messages so a JetStream
// redelivery does not count the same interaction twice.
package cache
