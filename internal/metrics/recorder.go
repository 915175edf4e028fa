// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package metrics

import "time"

// Recorder implements recommend.Observer with the package collectors.
type Recorder struct{}

// NewRecorder returns a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// InteractionRecorded implements recommend.Observer.
func (*Recorder) InteractionRecorded(action string, logSize int) {
	InteractionsRecorded.WithLabelValues(action).Inc()
	InteractionLogSize.Set(float64(logSize))
}

// PersistFailed implements recommend.Observer.
func (*Recorder) PersistFailed(op string) {
	PersistenceFailures.WithLabelValues(op).Inc()
}

// CatalogFetched implements recommend.Observer.
func (*Recorder) CatalogFetched(products int, err error) {
	RecordCatalogFetch(products, err)
}

// ColdStart implements recommend.Observer.
func (*Recorder) ColdStart() {
	ColdStarts.Inc()
}

// QueryCompleted implements recommend.Observer.
func (*Recorder) QueryCompleted(op string, d time.Duration, results int) {
	QueryDuration.WithLabelValues(op).Observe(d.Seconds())
	QueryResults.WithLabelValues(op).Observe(float64(results))
}
