// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

import (
	"net/http"
	"time"

	"github.com/tidemart/recommender/internal/models"
)

// Health handles GET /api/v1/health. It never fetches the catalog; a cache
// that has not loaded yet reports "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	products, loaded := h.engine.Catalog().Snapshot()

	status := "healthy"
	if !loaded {
		status = "degraded"
	}

	var components map[string]string
	if len(h.probes) > 0 {
		components = make(map[string]string, len(h.probes))
		for name, probe := range h.probes {
			components[name] = probe()
		}
	}

	respondSuccess(w, http.StatusOK, models.HealthResponse{
		Status:        status,
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Seconds(),
		CatalogLoaded: loaded,
		Products:      len(products),
		LogSize:       h.engine.Interactions().Len(),
		Components:    components,
	}, start)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady handles readiness probe requests. The service is ready once
// the product cache holds a snapshot; before that it answers 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	products, loaded := h.engine.Catalog().Snapshot()

	statusCode := http.StatusOK
	status := "ready"
	if !loaded {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"catalog_loaded": loaded,
			"products":       len(products),
			"ready_to_serve": loaded,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
