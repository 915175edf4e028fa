// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_interactions_recorded_total",
			Help: "Total number of interactions appended to the log",
		},
		[]string{"action"},
	)

	InteractionLogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_interaction_log_size",
			Help: "Current number of events held in the interaction log",
		},
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_persistence_failures_total",
			Help: "Total number of failed interaction log loads or saves",
		},
		[]string{"operation"}, // "load", "save"
	)

	ColdStarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cold_starts_total",
			Help: "Total number of recommendations served in discovery mode",
		},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Duration of ranking queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	QueryResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_results",
			Help:    "Number of products returned per ranking query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"operation"},
	)

	// Catalog Metrics
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Total number of catalog fetch attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Number of products in the last successful catalog fetch",
		},
	)

	CatalogLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful catalog fetch",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of bus messages consumed",
		},
		[]string{"topic", "result"}, // result: "recorded", "malformed"
	)

	EventProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "events_processing_duration_seconds",
			Help:    "Time to handle one bus message",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordCatalogFetch records the outcome of a catalog fetch.
func RecordCatalogFetch(products int, err error) {
	if err != nil {
		CatalogFetches.WithLabelValues("failure").Inc()
		return
	}
	CatalogFetches.WithLabelValues("success").Inc()
	CatalogProducts.Set(float64(products))
	CatalogLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordEventConsumed records a handled bus message.
func RecordEventConsumed(topic, result string, duration time.Duration) {
	EventsConsumed.WithLabelValues(topic, result).Inc()
	EventProcessingDuration.Observe(duration.Seconds())
}

// RecordBreakerRequest counts a call through a circuit breaker.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition updates breaker state metrics. States use the
// gobreaker names: "closed", "half-open", "open".
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
