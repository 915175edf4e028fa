// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/recommend"
)

var errCatalogDown = errors.New("catalog down")

// testCatalog is a small marketplace catalog used across handler tests.
func testCatalog() []recommend.Product {
	return []recommend.Product{
		{ID: "p1", Name: "Panzer IV kit", Category: "Tanks", Tags: []string{"ww2", "steel"}},
		{ID: "p2", Name: "Tiger kit", Category: "Tanks", Tags: []string{"ww2", "heavy"}},
		{ID: "p3", Name: "Kibble", Category: "Food", Tags: []string{"dog"}},
		{ID: "p4", Name: "Field rations", Category: "Food", Tags: []string{"ww2"}},
		{ID: "p5", Name: "Leash", Category: "Pets", Tags: []string{"dog", "leather"}},
	}
}

// stubSource is a CatalogSource whose failure can be toggled.
type stubSource struct {
	mu       sync.Mutex
	products []recommend.Product
	err      error
}

func (s *stubSource) FetchProducts(ctx context.Context) ([]recommend.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubSource) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// setupTestHandler returns a handler over a seeded engine and the source
// feeding it.
func setupTestHandler(t *testing.T, opts ...HandlerOption) (*Handler, *stubSource) {
	t.Helper()

	source := &stubSource{products: testCatalog()}
	cfg := recommend.DefaultConfig()
	cfg.Seed = 42

	engine, err := recommend.NewEngine(context.Background(), cfg, nil, source, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return NewHandler(engine, zerolog.Nop(), opts...), source
}

// setupTestServer serves a handler through the full router with rate
// limiting disabled.
func setupTestServer(t *testing.T, opts ...HandlerOption) (http.Handler, *Handler, *stubSource) {
	t.Helper()

	h, source := setupTestHandler(t, opts...)
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	router := NewRouter(h, NewChiMiddleware(cfg), zerolog.Nop(), 0)
	return router.SetupChi(), h, source
}

// envelope is the decoded APIResponse with a raw data field.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}

func productIDs(products []recommend.Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
