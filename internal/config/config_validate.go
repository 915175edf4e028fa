// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.URL != "" {
		u, err := url.Parse(c.Catalog.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("CATALOG_URL must be an http(s) URL, got %q", c.Catalog.URL)
		}
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must not be negative")
	}
	if c.Catalog.RateLimit < 0 {
		return fmt.Errorf("CATALOG_RATE_LIMIT must not be negative")
	}
	if c.Catalog.RateLimit > 0 && c.Catalog.Burst < 1 {
		return fmt.Errorf("CATALOG_BURST must be at least 1 when rate limiting")
	}
	return c.validateBreaker()
}

func (c *Config) validateBreaker() error {
	b := c.Catalog.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("catalog.breaker.failure_ratio must be in (0, 1], got %v", b.FailureRatio)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("catalog.breaker.timeout must be positive")
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("catalog.breaker.max_requests must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendBadger:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or badger, got %q", c.Store.Backend)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("STORE_KEY must not be empty")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.LogCapacity < 1 {
		return fmt.Errorf("recommend.log_capacity must be at least 1, got %d", r.LogCapacity)
	}
	if r.TrendingWindow <= 0 {
		return fmt.Errorf("recommend.trending_window must be positive")
	}
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommend limits invalid: default %d, max %d", r.DefaultLimit, r.MaxLimit)
	}
	for name, w := range map[string]float64{
		"purchase": r.Weights.Purchase,
		"cart":     r.Weights.Cart,
		"other":    r.Weights.Other,
	} {
		if w < 0 {
			return fmt.Errorf("recommend.weights.%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	switch c.Events.Backend {
	case EventsBackendMemory:
		// An in-process channel has no producer in the server binary.
		return fmt.Errorf("EVENTS_BACKEND=memory has no publisher in the server; use nats")
	case EventsBackendNATS:
		if c.Events.URL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be nats, got %q", c.Events.Backend)
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognised level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
