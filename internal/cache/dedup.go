// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	defaultDedupCapacity = 10000
	defaultDedupTTL      = 10 * time.Minute
)

type dedupEntry struct {
	key       string
	expiresAt time.Time
}

// Deduper is a thread-safe set of recently seen keys. Entries expire after
// the TTL and the least recently seen key is evicted at capacity. All
// operations are O(1).
type Deduper struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*list.Element
	order *list.List // front is most recently seen

	hits   int64
	misses int64
}

// NewDeduper creates a deduper. Non-positive arguments select 10000 keys and
// a 10 minute TTL.
func NewDeduper(capacity int, ttl time.Duration) *Deduper {
	if capacity <= 0 {
		capacity = defaultDedupCapacity
	}
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &Deduper{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Seen reports whether key was recorded within the TTL. An unseen or expired
// key is recorded and Seen returns false.
func (d *Deduper) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if el, ok := d.items[key]; ok {
		entry := el.Value.(*dedupEntry)
		if now.Before(entry.expiresAt) {
			d.order.MoveToFront(el)
			d.hits++
			return true
		}
		d.remove(el)
	}

	d.items[key] = d.order.PushFront(&dedupEntry{key: key, expiresAt: now.Add(d.ttl)})
	for d.order.Len() > d.capacity {
		d.remove(d.order.Back())
	}
	d.misses++
	return false
}

// Len returns the number of tracked keys, including expired ones not yet
// evicted.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order.Len()
}

// Stats returns duplicate hits and first sightings.
func (d *Deduper) Stats() (hits, misses int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hits, d.misses
}

// caller holds mu
func (d *Deduper) remove(el *list.Element) {
	entry := d.order.Remove(el).(*dedupEntry)
	delete(d.items, entry.key)
}
