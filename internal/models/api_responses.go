// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package models holds the wire types shared by HTTP handlers.
package models

import (
	"time"

	"github.com/tidemart/recommender/internal/recommend"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope of every JSON response.
//
// Successful response:
//
//	{
//	  "status": "success",
//	  "data": {"mode": "personalized", "products": [...]},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
//
// Error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"},
//	  "error": {"code": "VALIDATION_ERROR", "message": "user_id is required"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes used by the service:
//   - VALIDATION_ERROR: invalid query or body parameters
//   - INVALID_JSON: request body is not JSON
//   - NOT_FOUND: unknown route
//   - CATALOG_UNAVAILABLE: catalog refresh failed
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationsResponse is the data of GET /api/v1/recommendations.
type RecommendationsResponse struct {
	UserID   string              `json:"user_id"`
	Mode     recommend.Mode      `json:"mode"`
	Count    int                 `json:"count"`
	Products []recommend.Product `json:"products"`
}

// ProductListResponse is the data of the related, trending and category
// endpoints.
type ProductListResponse struct {
	Count    int                 `json:"count"`
	Products []recommend.Product `json:"products"`
}

// InteractionsResponse is the data of GET /api/v1/interactions.
type InteractionsResponse struct {
	UserID       string                       `json:"user_id"`
	Count        int                          `json:"count"`
	Capacity     int                          `json:"capacity"`
	Interactions []recommend.InteractionEvent `json:"interactions"`
}

// PreferencesResponse is the data of GET /api/v1/users/{userID}/preferences.
type PreferencesResponse struct {
	UserID     string   `json:"user_id"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// CatalogRefreshResponse is the data of POST /api/v1/catalog/refresh.
type CatalogRefreshResponse struct {
	Products int       `json:"products"`
	LoadedAt time.Time `json:"loaded_at"`
}

// HealthResponse is the data of the health endpoints.
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	Uptime        float64           `json:"uptime_seconds"`
	CatalogLoaded bool              `json:"catalog_loaded"`
	Products      int               `json:"products"`
	LogSize       int               `json:"log_size"`
	Components    map[string]string `json:"components,omitempty"`
}

// NewProductList wraps products for a list response. A nil slice is encoded
// as an empty array.
func NewProductList(products []recommend.Product) ProductListResponse {
	if products == nil {
		products = []recommend.Product{}
	}
	return ProductListResponse{Count: len(products), Products: products}
}
