// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tidemart/config.yaml",
	"/etc/tidemart/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix may precede any recognised environment variable.
const EnvPrefix = "TIDEMART_"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 8080,
			Host:                 "0.0.0.0",
			ReadTimeout:          15 * time.Second,
			WriteTimeout:         30 * time.Second,
			IdleTimeout:          60 * time.Second,
			ShutdownTimeout:      10 * time.Second,
			SlowRequestThreshold: 500 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			URL:             "",
			Timeout:         10 * time.Second,
			RefreshInterval: 0, // session-scoped snapshot unless configured
			RefreshTimeout:  30 * time.Second,
			WarmOnStart:     true,
			RateLimit:       0,
			Burst:           1,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  1,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  3,
				FailureRatio: 0.6,
			},
		},
		Store: StoreConfig{
			Backend: StoreBackendBadger,
			Path:    "/data/interactions",
			Key:     "marketplace:interactions",
		},
		Recommend: RecommendConfig{
			LogCapacity:      100,
			TrendingWindow:   7 * 24 * time.Hour,
			DefaultLimit:     10,
			MaxLimit:         100,
			ExcludePurchased: true,
			Seed:             0,
			Weights: WeightsConfig{
				Purchase: 3,
				Cart:     2,
				Other:    1,
			},
			Bonuses: BonusesConfig{
				Category:        10,
				Tag:             5,
				Novelty:         2,
				RelatedCategory: 20,
				RelatedTag:      10,
			},
		},
		Events: EventsConfig{
			Enabled:          false,
			Backend:          EventsBackendNATS,
			URL:              "nats://127.0.0.1:4222",
			Topic:            "marketplace.interactions",
			QueueGroup:       "recommenders",
			DurableName:      "recommender",
			StreamName:       "",
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			MaxDeliver:       5,
			BufferSize:       256,
		},
		Security: SecurityConfig{
			CORSOrigins:        []string{},
			RateLimitReqs:      300,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			WriteRateLimitReqs: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

// loadFrom runs the layered load with an explicit config file path; an
// empty path skips the file layer.
func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// CATALOG_URL -> catalog.url, TIDEMART_LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercase environment variable names, without the
// optional TIDEMART_ prefix, to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":              "server.port",
	"http_host":              "server.host",
	"http_read_timeout":      "server.read_timeout",
	"http_write_timeout":     "server.write_timeout",
	"http_idle_timeout":      "server.idle_timeout",
	"http_shutdown_timeout":  "server.shutdown_timeout",
	"slow_request_threshold": "server.slow_request_threshold",

	// Catalog
	"catalog_url":                   "catalog.url",
	"catalog_token":                 "catalog.token",
	"catalog_timeout":               "catalog.timeout",
	"catalog_refresh_interval":      "catalog.refresh_interval",
	"catalog_refresh_timeout":       "catalog.refresh_timeout",
	"catalog_warm_on_start":         "catalog.warm_on_start",
	"catalog_rate_limit":            "catalog.rate_limit",
	"catalog_burst":                 "catalog.burst",
	"catalog_breaker_enabled":       "catalog.breaker.enabled",
	"catalog_breaker_max_requests":  "catalog.breaker.max_requests",
	"catalog_breaker_interval":      "catalog.breaker.interval",
	"catalog_breaker_timeout":       "catalog.breaker.timeout",
	"catalog_breaker_min_requests":  "catalog.breaker.min_requests",
	"catalog_breaker_failure_ratio": "catalog.breaker.failure_ratio",

	// Store
	"store_backend": "store.backend",
	"store_path":    "store.path",
	"store_key":     "store.key",

	// Recommend
	"recommend_log_capacity":           "recommend.log_capacity",
	"recommend_trending_window":        "recommend.trending_window",
	"recommend_default_limit":          "recommend.default_limit",
	"recommend_max_limit":              "recommend.max_limit",
	"recommend_exclude_purchased":      "recommend.exclude_purchased",
	"recommend_seed":                   "recommend.seed",
	"recommend_weight_purchase":        "recommend.weights.purchase",
	"recommend_weight_cart":            "recommend.weights.cart",
	"recommend_weight_other":           "recommend.weights.other",
	"recommend_bonus_category":         "recommend.bonuses.category",
	"recommend_bonus_tag":              "recommend.bonuses.tag",
	"recommend_bonus_novelty":          "recommend.bonuses.novelty",
	"recommend_bonus_related_category": "recommend.bonuses.related_category",
	"recommend_bonus_related_tag":      "recommend.bonuses.related_tag",

	// Events
	"events_enabled":      "events.enabled",
	"events_backend":      "events.backend",
	"nats_url":            "events.url",
	"events_topic":        "events.topic",
	"events_queue_group":  "events.queue_group",
	"events_durable_name": "events.durable_name",
	"events_stream_name":  "events.stream_name",
	"events_subscribers":  "events.subscribers_count",
	"events_ack_wait":     "events.ack_wait_timeout",
	"events_max_deliver":  "events.max_deliver",
	"events_buffer_size":  "events.buffer_size",

	// Security
	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"write_rate_limit_reqs": "security.write_rate_limit_reqs",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unrecognised names map to "" and are skipped.
//
// Examples:
//   - CATALOG_URL -> catalog.url
//   - TIDEMART_CATALOG_URL -> catalog.url
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(EnvPrefix))
	return envMappings[key]
}
