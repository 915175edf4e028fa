// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tidemart/recommender/internal/recommend"
)

// DefaultKey is the key the interaction log is stored under.
const DefaultKey = "marketplace:interactions"

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store closed")

// MemoryStore keeps encoded logs in memory, keyed like the persistent store.
type MemoryStore struct {
	mu     sync.RWMutex
	key    string
	data   map[string][]byte
	closed bool
}

// NewMemoryStore creates an empty in-memory store. An empty key selects
// DefaultKey.
func NewMemoryStore(key string) *MemoryStore {
	if key == "" {
		key = DefaultKey
	}
	return &MemoryStore{key: key, data: make(map[string][]byte)}
}

// Load implements recommend.LogStore.
func (s *MemoryStore) Load(ctx context.Context) ([]recommend.InteractionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return decodeLog(s.data[s.key])
}

// Save implements recommend.LogStore.
func (s *MemoryStore) Save(ctx context.Context, events []recommend.InteractionEvent) error {
	data, err := encodeLog(events)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.data[s.key] = data
	return nil
}

// Raw returns the encoded log as stored.
func (s *MemoryStore) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data[s.key]...)
}

// Close implements io.Closer.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func encodeLog(events []recommend.InteractionEvent) ([]byte, error) {
	if events == nil {
		events = []recommend.InteractionEvent{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("marshal interaction log: %w", err)
	}
	return data, nil
}

// decodeLog treats missing or empty values as an empty log.
func decodeLog(data []byte) ([]recommend.InteractionEvent, error) {
	if len(data) == 0 {
		return []recommend.InteractionEvent{}, nil
	}
	var events []recommend.InteractionEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("unmarshal interaction log: %w", err)
	}
	if events == nil {
		events = []recommend.InteractionEvent{}
	}
	return events, nil
}
