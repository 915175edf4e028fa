// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package catalog

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tidemart/recommender/internal/recommend"
)

// ErrUnexpectedShape is returned for bodies that are neither an object nor
// an array.
var ErrUnexpectedShape = errors.New("catalog response is neither an object nor an array")

// wireProduct is a catalog record as served. Document-store backed catalogs
// use "_id".
type wireProduct struct {
	ID       string   `json:"id"`
	MongoID  string   `json:"_id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Price    float64  `json:"price"`
	SellerID string   `json:"seller_id"`
}

type productEnvelope struct {
	Products []wireProduct `json:"products"`
}

// DecodeProducts parses a catalog response body.
func DecodeProducts(body []byte) ([]recommend.Product, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedShape
	}

	var wire []wireProduct
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, fmt.Errorf("decode catalog array: %w", err)
		}
	case '{':
		var env productEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode catalog object: %w", err)
		}
		wire = env.Products
	default:
		return nil, ErrUnexpectedShape
	}

	products := make([]recommend.Product, 0, len(wire))
	for i := range wire {
		products = append(products, wire[i].toProduct())
	}
	return products, nil
}

func (w *wireProduct) toProduct() recommend.Product {
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}
	return recommend.Product{
		ID:       id,
		Name:     w.Name,
		Category: w.Category,
		Tags:     tags,
		Price:    w.Price,
		SellerID: w.SellerID,
	}
}
