// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"context"
	"time"
)

// Action classifies a user interaction with a product.
type Action string

const (
	// ActionView is a product page view.
	ActionView Action = "view"
	// ActionCart is an add-to-cart.
	ActionCart Action = "cart"
	// ActionPurchase is a completed checkout line.
	ActionPurchase Action = "purchase"
	// ActionSearch is a search result click-through.
	ActionSearch Action = "search"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCart, ActionPurchase, ActionSearch:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}

// InteractionEvent is one recorded user action. Events are never mutated
// after creation.
type InteractionEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Product is the subset of a catalog record the recommender works with.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Price    float64  `json:"price,omitempty"`
	SellerID string   `json:"seller_id,omitempty"`
}

// ScoredProduct pairs a product with its affinity score for one query.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}

// Mode reports which branch produced a recommendation list.
type Mode string

const (
	// ModePersonalized is affinity scoring over the user's history.
	ModePersonalized Mode = "personalized"
	// ModeDiscovery is the random cold-start fallback.
	ModeDiscovery Mode = "discovery"
)

// Result is a recommendation list together with the branch that produced it.
type Result struct {
	Products []Product `json:"products"`
	Mode     Mode      `json:"mode"`
}

// LogStore persists the interaction log as a whole. Implementations live in
// the storage subpackage.
type LogStore interface {
	// Load returns the stored events in insertion order, or an empty slice
	// when nothing has been saved yet.
	Load(ctx context.Context) ([]InteractionEvent, error)

	// Save replaces the stored log with events.
	Save(ctx context.Context, events []InteractionEvent) error
}

// CatalogSource lists every product of the external catalog.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}
