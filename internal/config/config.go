// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package config

import (
	"fmt"
	"time"
)

// Store backends.
const (
	StoreBackendMemory = "memory"
	StoreBackendBadger = "badger"
)

// Events backends. Only nats is accepted by Validate; memory names the
// in-process transport so the rejection can say why.
const (
	EventsBackendMemory = "memory"
	EventsBackendNATS   = "nats"
)

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Store      StoreConfig      `koanf:"store"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Events     EventsConfig     `koanf:"events"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SlowRequestThreshold promotes access log entries to warn level.
	// Zero disables the promotion.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig describes the external product catalog.
type CatalogConfig struct {
	// URL is the product listing endpoint. Empty runs without a catalog:
	// every query degrades to an empty result.
	URL   string `koanf:"url"`
	Token string `koanf:"token"`

	Timeout time.Duration `koanf:"timeout"`

	// RefreshInterval reloads the product cache periodically. Zero keeps
	// the first snapshot for the life of the process.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// RefreshTimeout bounds warm-up, periodic and on-demand reloads.
	RefreshTimeout time.Duration `koanf:"refresh_timeout"`

	// WarmOnStart loads the cache when the service starts instead of on
	// the first query.
	WarmOnStart bool `koanf:"warm_on_start"`

	// RateLimit is the maximum catalog fetches per second; zero is unlimited.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around the catalog client.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// StoreConfig selects where the interaction log is persisted.
type StoreConfig struct {
	// Backend is badger (default) or memory. Memory loses history on restart.
	Backend string `koanf:"backend"`

	// Path is the badger directory.
	Path string `koanf:"path"`

	// Key is the storage key the log is written under.
	Key string `koanf:"key"`
}

// RecommendConfig mirrors the scoring tunables.
type RecommendConfig struct {
	LogCapacity      int           `koanf:"log_capacity"`
	TrendingWindow   time.Duration `koanf:"trending_window"`
	DefaultLimit     int           `koanf:"default_limit"`
	MaxLimit         int           `koanf:"max_limit"`
	ExcludePurchased bool          `koanf:"exclude_purchased"`

	// Seed fixes the discovery shuffle; zero seeds from the clock.
	Seed int64 `koanf:"seed"`

	Weights WeightsConfig `koanf:"weights"`
	Bonuses BonusesConfig `koanf:"bonuses"`
}

// WeightsConfig is the preference weight per action.
type WeightsConfig struct {
	Purchase float64 `koanf:"purchase"`
	Cart     float64 `koanf:"cart"`
	Other    float64 `koanf:"other"`
}

// BonusesConfig holds the score increments.
type BonusesConfig struct {
	Category        float64 `koanf:"category"`
	Tag             float64 `koanf:"tag"`
	Novelty         float64 `koanf:"novelty"`
	RelatedCategory float64 `koanf:"related_category"`
	RelatedTag      float64 `koanf:"related_tag"`
}

// EventsConfig configures interaction ingest from the marketplace bus.
type EventsConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Backend          string        `koanf:"backend"`
	URL              string        `koanf:"url"`
	Topic            string        `koanf:"topic"`
	QueueGroup       string        `koanf:"queue_group"`
	DurableName      string        `koanf:"durable_name"`
	StreamName       string        `koanf:"stream_name"`
	SubscribersCount int           `koanf:"subscribers_count"`
	AckWaitTimeout   time.Duration `koanf:"ack_wait_timeout"`
	MaxDeliver       int           `koanf:"max_deliver"`
	BufferSize       int64         `koanf:"buffer_size"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// WriteRateLimitReqs limits POST endpoints per client within
	// RateLimitWindow.
	WriteRateLimitReqs int `koanf:"write_rate_limit_reqs"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// SupervisorConfig tunes the suture supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
