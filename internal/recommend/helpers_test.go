// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var errTest = errors.New("test failure")

// mockStore implements LogStore in memory with injectable failures.
type mockStore struct {
	mu      sync.Mutex
	events  []InteractionEvent
	loadErr error
	saveErr error
	saves   int
}

func (m *mockStore) Load(ctx context.Context) ([]InteractionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]InteractionEvent, len(m.events))
	copy(out, m.events)
	return out, nil
}

func (m *mockStore) Save(ctx context.Context, events []InteractionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.events = make([]InteractionEvent, len(events))
	copy(m.events, events)
	return nil
}

func (m *mockStore) snapshot() []InteractionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]InteractionEvent, len(m.events))
	copy(out, m.events)
	return out
}

// mockSource implements CatalogSource.
type mockSource struct {
	products []Product
	err      error
	calls    atomic.Int32
	delay    time.Duration
}

func (m *mockSource) FetchProducts(ctx context.Context) ([]Product, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// recordingObserver counts observer callbacks.
type recordingObserver struct {
	mu          sync.Mutex
	recorded    int
	persistFail map[string]int
	fetches     int
	fetchErrs   int
	coldStarts  int
	queries     map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{persistFail: map[string]int{}, queries: map[string]int{}}
}

func (o *recordingObserver) InteractionRecorded(string, int) {
	o.mu.Lock()
	o.recorded++
	o.mu.Unlock()
}

func (o *recordingObserver) PersistFailed(op string) {
	o.mu.Lock()
	o.persistFail[op]++
	o.mu.Unlock()
}

func (o *recordingObserver) CatalogFetched(_ int, err error) {
	o.mu.Lock()
	o.fetches++
	if err != nil {
		o.fetchErrs++
	}
	o.mu.Unlock()
}

func (o *recordingObserver) ColdStart() {
	o.mu.Lock()
	o.coldStarts++
	o.mu.Unlock()
}

func (o *recordingObserver) QueryCompleted(op string, _ time.Duration, _ int) {
	o.mu.Lock()
	o.queries[op]++
	o.mu.Unlock()
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testCatalog() []Product {
	return []Product{
		{ID: "p1", Name: "Sherman", Category: "Tanks", Tags: []string{"ww2", "steel"}},
		{ID: "p2", Name: "Tiger", Category: "Tanks", Tags: []string{"ww2", "heavy"}},
		{ID: "p3", Name: "Kibble", Category: "Food", Tags: []string{"dog"}},
		{ID: "p4", Name: "Ration", Category: "Food", Tags: []string{"ww2"}},
		{ID: "p5", Name: "Leash", Category: "Pets", Tags: []string{"dog", "leather"}},
	}
}

func newTestEngine(t *testing.T, store LogStore, source CatalogSource, opts ...Option) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Seed = 42

	e, err := NewEngine(context.Background(), cfg, store, source, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func productIDs(products []Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
