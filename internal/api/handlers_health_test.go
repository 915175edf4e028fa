// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/tidemart/recommender/internal/models"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, h, _ := setupTestServer(t,
		WithVersion("1.2.3"),
		WithStatusProbe("catalog_breaker", func() string { return "closed" }),
	)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var before models.HealthResponse
	decodeData(t, env, &before)
	if before.Status != "degraded" || before.CatalogLoaded {
		t.Errorf("health before load = %+v, want degraded", before)
	}
	if before.Version != "1.2.3" || before.Components["catalog_breaker"] != "closed" {
		t.Errorf("health = %+v", before)
	}

	h.engine.Catalog().EnsureLoaded(context.Background())

	_, env = doRequest(t, srv, http.MethodGet, "/api/v1/health", "")
	var after models.HealthResponse
	decodeData(t, env, &after)
	if after.Status != "healthy" || after.Products != 5 {
		t.Errorf("health after load = %+v", after)
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	srv, _, _ := setupTestServer(t)
	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK || env.Status != models.StatusSuccess {
		t.Errorf("live = %d %s", rec.Code, env.Status)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	srv, h, _ := setupTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable || env.Status != "not_ready" {
		t.Errorf("ready before load = %d %s, want 503 not_ready", rec.Code, env.Status)
	}

	h.engine.Catalog().EnsureLoaded(context.Background())

	rec, env = doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK || env.Status != "ready" {
		t.Errorf("ready after load = %d %s, want 200 ready", rec.Code, env.Status)
	}
}
