// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import "time"

// Observer receives instrumentation callbacks from the engine. The metrics
// package provides the Prometheus implementation; it only depends on strings
// and numbers so this package stays free of internal imports.
type Observer interface {
	// InteractionRecorded is called after an event was appended to the log.
	InteractionRecorded(action string, logSize int)

	// PersistFailed is called when the log store rejects a load or save.
	PersistFailed(op string)

	// CatalogFetched is called after every catalog fetch attempt.
	CatalogFetched(products int, err error)

	// ColdStart is called when Recommend falls back to discovery.
	ColdStart()

	// QueryCompleted is called when a query returns.
	QueryCompleted(op string, d time.Duration, results int)
}

type nopObserver struct{}

func (nopObserver) InteractionRecorded(string, int)           {}
func (nopObserver) PersistFailed(string)                      {}
func (nopObserver) CatalogFetched(int, error)                 {}
func (nopObserver) ColdStart()                                {}
func (nopObserver) QueryCompleted(string, time.Duration, int) {}
