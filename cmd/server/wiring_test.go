// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/api"
	"github.com/tidemart/recommender/internal/config"
	"github.com/tidemart/recommender/internal/events"
	"github.com/tidemart/recommender/internal/recommend"
	"github.com/tidemart/recommender/internal/recommend/storage"
)

const catalogFixture = `{"products":[
	{"_id":"p1","name":"Sherman","category":"Tanks","tags":["ww2","steel"],"price":80},
	{"_id":"p2","name":"Tiger","category":"Tanks","tags":["ww2"],"price":95},
	{"_id":"p3","name":"Kibble","category":"Food","tags":["dog"],"price":20}
]}`

func loadTestConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.ConfigPathEnvVar, path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestRecommendConfig_DefaultsAreValid(t *testing.T) {
	cfg := loadTestConfig(t, "logging:\n  level: warn\n")

	rc := recommendConfig(cfg)
	if err := rc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if *rc != *recommend.DefaultConfig() {
		t.Errorf("recommendConfig = %+v, want engine defaults %+v", rc, recommend.DefaultConfig())
	}
}

func TestRecommendConfig_Overrides(t *testing.T) {
	cfg := loadTestConfig(t, `
recommend:
  log_capacity: 50
  max_limit: 20
  seed: 7
  weights:
    cart: 2.5
  bonuses:
    novelty: 0
`)

	rc := recommendConfig(cfg)
	if rc.LogCapacity != 50 || rc.Limits.MaxLimit != 20 || rc.Seed != 7 {
		t.Errorf("recommendConfig = %+v", rc)
	}
	if rc.Weights.Cart != 2.5 || rc.Bonuses.Novelty != 0 {
		t.Errorf("weights/bonuses = %+v / %+v", rc.Weights, rc.Bonuses)
	}
}

func TestComponentOptions(t *testing.T) {
	cfg := loadTestConfig(t, `
catalog:
  url: http://catalog:3000/api/products
  token: secret
  rate_limit: 2
  burst: 3
  breaker:
    failure_ratio: 0.5
events:
  backend: nats
  queue_group: shard-a
  max_deliver: 9
security:
  rate_limit_reqs: 50
  rate_limit_window: 30s
  write_rate_limit_reqs: 70
  cors_origins:
    - https://shop.example
supervisor:
  failure_threshold: 3
`)

	co := catalogOptions(cfg, "1.2.3")
	if co.URL != cfg.Catalog.URL || co.Token != "secret" || co.RateLimit != 2 || co.Burst != 3 {
		t.Errorf("catalogOptions = %+v", co)
	}
	if co.UserAgent != "tidemart-recommender/1.2.3" {
		t.Errorf("UserAgent = %q", co.UserAgent)
	}

	bo := breakerOptions(cfg)
	if bo.FailureRatio != 0.5 || bo.MinRequests != 3 || bo.Name != "catalog-api" {
		t.Errorf("breakerOptions = %+v", bo)
	}

	sc := subscriberConfig(cfg)
	if sc.Backend != events.BackendNATS || sc.QueueGroup != "shard-a" || sc.MaxDeliver != 9 {
		t.Errorf("subscriberConfig = %+v", sc)
	}
	if sc.DurableName != "recommender" || sc.MaxAckPending != events.DefaultSubscriberConfig("").MaxAckPending {
		t.Errorf("subscriberConfig lost defaults: %+v", sc)
	}

	mc := middlewareConfig(cfg)
	if mc.RateLimitRequests != 50 || mc.RateLimitWindow != 30*time.Second || mc.WriteRateLimitRequests != 70 {
		t.Errorf("middlewareConfig = %+v", mc)
	}
	if len(mc.CORSAllowedOrigins) != 1 || mc.CORSAllowedOrigins[0] != "https://shop.example" {
		t.Errorf("CORSAllowedOrigins = %v", mc.CORSAllowedOrigins)
	}

	if tc := treeConfig(cfg); tc.FailureThreshold != 3 || tc.ShutdownTimeout != 10*time.Second {
		t.Errorf("treeConfig = %+v", tc)
	}
	if hc := httpServiceConfig(cfg); hc.Addr != cfg.Server.Addr() || hc.ShutdownTimeout != 10*time.Second {
		t.Errorf("httpServiceConfig = %+v", hc)
	}
	if rc := refreshConfig(cfg); !rc.WarmOnStart || rc.Interval != 0 || rc.Timeout != 30*time.Second {
		t.Errorf("refreshConfig = %+v", rc)
	}
}

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := loadTestConfig(t, "store:\n  backend: memory\n")
		store, err := openStore(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("openStore() error = %v", err)
		}
		defer store.Close()
	})

	t.Run("badger", func(t *testing.T) {
		dir := t.TempDir()
		cfg := loadTestConfig(t, "store:\n  backend: badger\n  path: "+dir+"\n")
		store, err := openStore(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("openStore() error = %v", err)
		}
		defer store.Close()

		ev := []recommend.InteractionEvent{{UserID: "u1", ProductID: "p1", Action: recommend.ActionView, Timestamp: time.Now().UTC()}}
		if err := store.Save(context.Background(), ev); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := store.Load(context.Background())
		if err != nil || len(got) != 1 {
			t.Errorf("Load() = %v, %v", got, err)
		}
	})

	t.Run("default is durable badger", func(t *testing.T) {
		dir := t.TempDir()
		cfg := loadTestConfig(t, "store:\n  path: "+dir+"\n")
		if cfg.Store.Backend != config.StoreBackendBadger {
			t.Fatalf("default Store.Backend = %q, want badger", cfg.Store.Backend)
		}

		store, err := openStore(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("openStore() error = %v", err)
		}
		if _, ok := store.(*storage.BadgerStore); !ok {
			t.Fatalf("openStore() = %T, want *storage.BadgerStore", store)
		}
		ev := []recommend.InteractionEvent{{UserID: "u1", ProductID: "p1", Action: recommend.ActionPurchase, Timestamp: time.Now().UTC()}}
		if err := store.Save(context.Background(), ev); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		// A restart hydrates the engine from the same directory.
		reopened, err := openStore(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer reopened.Close()
		engine, err := recommend.NewEngine(context.Background(), recommendConfig(cfg), reopened, nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if got := engine.Interactions().ForUser("u1"); len(got) != 1 || got[0].ProductID != "p1" {
			t.Errorf("history after restart = %+v", got)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := loadTestConfig(t, "")
		cfg.Store.Backend = "redis"
		if _, err := openStore(cfg, zerolog.Nop()); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
}

func TestCatalogSource(t *testing.T) {
	t.Run("no url", func(t *testing.T) {
		cfg := loadTestConfig(t, "")
		src, probe, err := catalogSource(cfg, "test", zerolog.Nop())
		if err != nil || src != nil || probe != nil {
			t.Errorf("catalogSource() = %v, %v, %v; want nil source", src, probe, err)
		}
	})

	t.Run("breaker enabled", func(t *testing.T) {
		cfg := loadTestConfig(t, "catalog:\n  url: http://catalog.invalid/products\n")
		src, probe, err := catalogSource(cfg, "test", zerolog.Nop())
		if err != nil || src == nil {
			t.Fatalf("catalogSource() = %v, %v", src, err)
		}
		if probe == nil || probe() != "closed" {
			t.Errorf("breaker probe missing or not closed")
		}
	})

	t.Run("breaker disabled", func(t *testing.T) {
		cfg := loadTestConfig(t, "catalog:\n  url: http://catalog.invalid/products\n  breaker:\n    enabled: false\n")
		src, probe, err := catalogSource(cfg, "test", zerolog.Nop())
		if err != nil || src == nil || probe != nil {
			t.Errorf("catalogSource() = %v, %v, %v", src, probe, err)
		}
	})
}

func TestNewEventsService(t *testing.T) {
	engine, err := recommend.NewEngine(context.Background(), nil, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	t.Run("in-process transport", func(t *testing.T) {
		cfg := loadTestConfig(t, "")
		// Validation keeps memory out of the server config; the builder
		// itself still accepts it.
		cfg.Events.Enabled = true
		cfg.Events.Backend = config.EventsBackendMemory

		svc, sub, err := newEventsService(cfg, engine, zerolog.Nop())
		if err != nil {
			t.Fatalf("newEventsService() error = %v", err)
		}
		defer sub.Close()
		if svc.String() != "events-consumer-service" {
			t.Errorf("String() = %q", svc.String())
		}
	})

	t.Run("memory backend rejected by config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("events:\n  enabled: true\n  backend: memory\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(config.ConfigPathEnvVar, path)
		if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "no publisher") {
			t.Errorf("config.Load() error = %v, want memory backend rejected", err)
		}
	})

	t.Run("nats without build tag", func(t *testing.T) {
		if events.NATSAvailable {
			t.Skip("binary built with nats")
		}
		cfg := loadTestConfig(t, "events:\n  enabled: true\n")
		if _, _, err := newEventsService(cfg, engine, zerolog.Nop()); !errors.Is(err, events.ErrNATSUnavailable) {
			t.Errorf("newEventsService() error = %v, want ErrNATSUnavailable", err)
		}
	})
}

// TestServerWiring drives the assembled router against a fake catalog API.
func TestServerWiring(t *testing.T) {
	catalogAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogFixture))
	}))
	defer catalogAPI.Close()

	cfg := loadTestConfig(t, `
catalog:
  url: `+catalogAPI.URL+`
store:
  backend: memory
recommend:
  seed: 42
security:
  rate_limit_disabled: true
`)

	source, probe, err := catalogSource(cfg, "test", zerolog.Nop())
	if err != nil {
		t.Fatalf("catalogSource() error = %v", err)
	}
	store, err := openStore(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer store.Close()

	engine, err := recommend.NewEngine(context.Background(), recommendConfig(cfg), store, source, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	handler := api.NewHandler(engine, zerolog.Nop(), api.WithVersion("test"), api.WithStatusProbe("catalog_breaker", probe))
	router := api.NewRouter(handler, api.NewChiMiddleware(middlewareConfig(cfg)), zerolog.Nop(), cfg.Server.SlowRequestThreshold)
	srv := httptest.NewServer(router.SetupChi())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/interactions", "application/json",
		strings.NewReader(`{"user_id":"u1","product_id":"p1","action":"view"}`))
	if err != nil {
		t.Fatalf("POST interactions: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST interactions status = %d, want 201", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/v1/recommendations?user_id=u1&limit=2")
	if err != nil {
		t.Fatalf("GET recommendations: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET recommendations status = %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Mode     string `json:"mode"`
			Count    int    `json:"count"`
			Products []struct {
				ID string `json:"id"`
			} `json:"products"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Mode != string(recommend.ModePersonalized) {
		t.Errorf("mode = %q, want personalized", body.Data.Mode)
	}
	if body.Data.Count != 2 || body.Data.Products[0].ID != "p1" || body.Data.Products[1].ID != "p2" {
		t.Errorf("recommendations = %+v, want [p1 p2]", body.Data.Products)
	}

	ready, err := http.Get(srv.URL + "/api/v1/health/ready")
	if err != nil {
		t.Fatalf("GET ready: %v", err)
	}
	_ = ready.Body.Close()
	if ready.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d after catalog load", ready.StatusCode)
	}
}
