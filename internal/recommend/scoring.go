// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"sort"
	"time"
)

// Preferences is a user's categories and tags ordered from most to least
// preferred.
type Preferences struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// weightedKeys accumulates weights per key and remembers first-seen order.
type weightedKeys struct {
	order  []string
	weight map[string]float64
}

func newWeightedKeys() *weightedKeys {
	return &weightedKeys{weight: make(map[string]float64)}
}

func (w *weightedKeys) add(key string, v float64) {
	if key == "" {
		return
	}
	if _, ok := w.weight[key]; !ok {
		w.order = append(w.order, key)
	}
	w.weight[key] += v
}

// ranked returns keys by descending weight. Equal weights keep first-seen order.
func (w *weightedKeys) ranked() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	sort.SliceStable(out, func(i, j int) bool {
		return w.weight[out[i]] > w.weight[out[j]]
	})
	return out
}

// indexProducts maps product IDs to products. The first occurrence wins.
func indexProducts(products []Product) map[string]Product {
	index := make(map[string]Product, len(products))
	for i := range products {
		if _, ok := index[products[i].ID]; !ok {
			index[products[i].ID] = products[i]
		}
	}
	return index
}

// uniqueTags returns tags without duplicates, preserving order.
func uniqueTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// RankPreferences derives a user's category and tag preferences from their
// history. Events whose product is missing from the catalog are skipped.
func RankPreferences(history []InteractionEvent, products []Product, weights ActionWeights) Preferences {
	index := indexProducts(products)
	cats := newWeightedKeys()
	tags := newWeightedKeys()

	for i := range history {
		p, ok := index[history[i].ProductID]
		if !ok {
			continue
		}
		w := weights.For(history[i].Action)
		cats.add(p.Category, w)
		for _, t := range uniqueTags(p.Tags) {
			tags.add(t, w)
		}
	}

	return Preferences{Categories: cats.ranked(), Tags: tags.ranked()}
}

// positionBonus maps each key to n-i, where i is its rank among n keys.
func positionBonus(ranked []string) map[string]float64 {
	n := len(ranked)
	out := make(map[string]float64, n)
	for i, k := range ranked {
		out[k] = float64(n - i)
	}
	return out
}

// ScoreForUser scores every product against a user's history and returns them
// sorted by descending score. Equal scores keep catalog order. With
// cfg.ExcludePurchased, products the user bought are left out.
func ScoreForUser(cfg *Config, history []InteractionEvent, products []Product) []ScoredProduct {
	prefs := RankPreferences(history, products, cfg.Weights)
	catBonus := positionBonus(prefs.Categories)
	tagBonus := positionBonus(prefs.Tags)

	interacted := make(map[string]struct{}, len(history))
	purchased := make(map[string]struct{})
	for i := range history {
		interacted[history[i].ProductID] = struct{}{}
		if history[i].Action == ActionPurchase {
			purchased[history[i].ProductID] = struct{}{}
		}
	}

	scored := make([]ScoredProduct, 0, len(products))
	for i := range products {
		p := products[i]
		if cfg.ExcludePurchased {
			if _, ok := purchased[p.ID]; ok {
				continue
			}
		}

		var score float64
		score += cfg.Bonuses.Category * catBonus[p.Category]
		for _, t := range uniqueTags(p.Tags) {
			score += cfg.Bonuses.Tag * tagBonus[t]
		}
		if _, ok := interacted[p.ID]; !ok {
			score += cfg.Bonuses.Novelty
		}

		scored = append(scored, ScoredProduct{Product: p, Score: score})
	}

	sortScored(scored)
	return scored
}

// ScoreRelated scores products by similarity to ref. The reference product and
// products with no overlap are omitted.
func ScoreRelated(cfg *Config, ref Product, products []Product) []ScoredProduct {
	refTags := make(map[string]struct{}, len(ref.Tags))
	for _, t := range ref.Tags {
		refTags[t] = struct{}{}
	}

	scored := make([]ScoredProduct, 0)
	for i := range products {
		p := products[i]
		if p.ID == ref.ID {
			continue
		}

		var score float64
		if ref.Category != "" && p.Category == ref.Category {
			score += cfg.Bonuses.RelatedCategory
		}
		for _, t := range uniqueTags(p.Tags) {
			if _, ok := refTags[t]; ok {
				score += cfg.Bonuses.RelatedTag
			}
		}
		if score <= 0 {
			continue
		}

		scored = append(scored, ScoredProduct{Product: p, Score: score})
	}

	sortScored(scored)
	return scored
}

// ScoreTrending counts events at or after since per product and returns the
// catalog products with at least one event, most active first. Equal counts
// keep catalog order.
func ScoreTrending(events []InteractionEvent, products []Product, since time.Time) []ScoredProduct {
	counts := make(map[string]int)
	for i := range events {
		if events[i].Timestamp.Before(since) {
			continue
		}
		counts[events[i].ProductID]++
	}

	scored := make([]ScoredProduct, 0, len(counts))
	seen := make(map[string]struct{}, len(counts))
	for i := range products {
		p := products[i]
		n, ok := counts[p.ID]
		if !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		scored = append(scored, ScoredProduct{Product: p, Score: float64(n)})
	}

	sortScored(scored)
	return scored
}

func sortScored(scored []ScoredProduct) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

func topProducts(scored []ScoredProduct, limit int) []Product {
	if limit > len(scored) {
		limit = len(scored)
	}
	out := make([]Product, limit)
	for i := 0; i < limit; i++ {
		out[i] = scored[i].Product
	}
	return out
}
