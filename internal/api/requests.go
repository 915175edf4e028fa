// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

// RecordInteractionRequest is the body of POST /api/v1/interactions.
type RecordInteractionRequest struct {
	UserID    string `json:"user_id" validate:"required,identifier"`
	ProductID string `json:"product_id" validate:"required,identifier"`
	Action    string `json:"action" validate:"required,action"`
}

// UserQueryRequest carries the user_id query parameter.
type UserQueryRequest struct {
	UserID string `query:"user_id" validate:"required,identifier"`
}

// UserPathRequest carries the userID path parameter.
type UserPathRequest struct {
	UserID string `path:"userID" validate:"required,identifier"`
}

// RecommendationsRequest holds the query of GET /api/v1/recommendations.
// Limits above the engine maximum are clamped rather than rejected.
type RecommendationsRequest struct {
	UserID string `query:"user_id" validate:"required,identifier"`
	Limit  int    `query:"limit" validate:"min=0"`
}

// ProductListRequest holds the productID path parameter and an optional limit.
type ProductListRequest struct {
	ProductID string `path:"productID" validate:"required,identifier"`
	Limit     int    `query:"limit" validate:"min=0"`
}

// LimitRequest holds an optional limit.
type LimitRequest struct {
	Limit int `query:"limit" validate:"min=0"`
}

// CategoryRequest holds the category path parameter.
type CategoryRequest struct {
	Category string `path:"category" validate:"required,max=128"`
}
