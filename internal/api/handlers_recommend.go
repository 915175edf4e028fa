// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tidemart/recommender/internal/logging"
	"github.com/tidemart/recommender/internal/models"
	"github.com/tidemart/recommender/internal/recommend"
)

// RecordInteraction handles POST /api/v1/interactions.
// Storage failures are logged by the engine and do not fail the request.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecordInteractionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be a JSON object with user_id, product_id and action", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	action := recommend.Action(req.Action)
	if !action.Valid() {
		reqLogger := logging.FromContext(r.Context(), h.logger)
		reqLogger.Debug().
			Str("action", req.Action).
			Msg("recording interaction with unrecognised action")
	}

	ev := h.engine.Record(r.Context(), req.UserID, req.ProductID, action)
	respondSuccess(w, http.StatusCreated, ev, start)
}

// GetInteractions handles GET /api/v1/interactions?user_id=.
func (h *Handler) GetInteractions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := UserQueryRequest{UserID: r.URL.Query().Get("user_id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	events := h.engine.Interactions().ForUser(req.UserID)
	if events == nil {
		events = []recommend.InteractionEvent{}
	}

	respondSuccess(w, http.StatusOK, models.InteractionsResponse{
		UserID:       req.UserID,
		Count:        len(events),
		Capacity:     h.engine.Interactions().Capacity(),
		Interactions: events,
	}, start)
}

// GetRecommendations handles GET /api/v1/recommendations?user_id=&limit=.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := parseLimitParam(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	req := RecommendationsRequest{UserID: r.URL.Query().Get("user_id"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	result := h.engine.RecommendDetailed(r.Context(), req.UserID, req.Limit)
	products := result.Products
	if products == nil {
		products = []recommend.Product{}
	}

	respondSuccess(w, http.StatusOK, models.RecommendationsResponse{
		UserID:   req.UserID,
		Mode:     result.Mode,
		Count:    len(products),
		Products: products,
	}, start)
}

// GetPreferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := UserPathRequest{UserID: chi.URLParam(r, "userID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	prefs := h.engine.Preferences(r.Context(), req.UserID)
	respondSuccess(w, http.StatusOK, models.PreferencesResponse{
		UserID:     req.UserID,
		Categories: prefs.Categories,
		Tags:       prefs.Tags,
	}, start)
}

// GetRelated handles GET /api/v1/products/{productID}/related?limit=.
// An unknown product yields an empty list, not a 404.
func (h *Handler) GetRelated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := parseLimitParam(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	req := ProductListRequest{ProductID: chi.URLParam(r, "productID"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	products := h.engine.Related(r.Context(), req.ProductID, req.Limit)
	respondSuccess(w, http.StatusOK, models.NewProductList(products), start)
}

// GetTrending handles GET /api/v1/trending?limit=.
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := parseLimitParam(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	req := LimitRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	products := h.engine.Trending(r.Context(), req.Limit)
	respondSuccess(w, http.StatusOK, models.NewProductList(products), start)
}

// GetCategoryProducts handles GET /api/v1/categories/{category}/products.
// The category must match exactly, case included.
func (h *Handler) GetCategoryProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := CategoryRequest{Category: strings.TrimSpace(chi.URLParam(r, "category"))}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	products := h.engine.ByCategory(r.Context(), req.Category)
	respondSuccess(w, http.StatusOK, models.NewProductList(products), start)
}

// RefreshCatalog handles POST /api/v1/catalog/refresh. On failure the
// previous snapshot keeps serving and the endpoint answers 503.
func (h *Handler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.refreshTimeout)
	defer cancel()

	n, err := h.engine.Catalog().Refresh(ctx)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog refresh failed; the previous snapshot is still served", err)
		return
	}

	reqLogger := logging.FromContext(r.Context(), h.logger)
	reqLogger.Info().Int("products", n).Msg("catalog refreshed on request")
	respondSuccess(w, http.StatusOK, models.CatalogRefreshResponse{
		Products: n,
		LoadedAt: h.engine.Catalog().LoadedAt(),
	}, start)
}
