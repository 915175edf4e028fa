// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package storage persists the interaction log.
//
// The whole log is stored as a single JSON array under one key
// (default "marketplace:interactions"). Two backends implement
// recommend.LogStore:
//
//   - MemoryStore keeps the encoded log in process memory. It is used in
//     tests and when no data directory is configured.
//   - BadgerStore writes to an embedded BadgerDB so the log survives restarts.
//
// Both encode with goccy/go-json so a log written by one backend can be
// imported into the other byte for byte.
package storage
