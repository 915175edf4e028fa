// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/middleware"
)

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	srv, _, _ := setupTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown route = %d %+v", rec.Code, env.Error)
	}

	rec, env = doRequest(t, srv, http.MethodDelete, "/api/v1/trending", "")
	if rec.Code != http.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("wrong method = %d %+v", rec.Code, env.Error)
	}
}

func TestRouter_Headers(t *testing.T) {
	t.Parallel()

	srv, _, _ := setupTestServer(t)
	rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/trending", "")

	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing X-Request-ID")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	srv, _, _ := setupTestServer(t)
	doRequest(t, srv, http.MethodGet, "/api/v1/trending", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("/metrics does not expose api_requests_total")
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	h, _ := setupTestHandler(t)
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	srv := NewRouter(h, NewChiMiddleware(cfg), zerolog.Nop(), 0).SetupChi()

	var codes []int
	for i := 0; i < 3; i++ {
		rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/trending", "")
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	h, _ := setupTestHandler(t)
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://shop.example"}
	srv := NewRouter(h, NewChiMiddleware(cfg), zerolog.Nop(), 0).SetupChi()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/interactions", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestAPISecurityHeaders_HSTS(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS behind TLS proxy")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("unexpected HSTS over plain HTTP")
	}
}
