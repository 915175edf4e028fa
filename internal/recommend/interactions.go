// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// InteractionLog is the bounded, ordered list of recent interaction events.
// Oldest events are evicted first once capacity is reached, and the whole log
// is written to the LogStore after every append.
type InteractionLog struct {
	mu       sync.RWMutex
	events   []InteractionEvent
	capacity int

	store    LogStore
	logger   zerolog.Logger
	observer Observer
	now      func() time.Time
}

// NewInteractionLog creates a log hydrated from store. A nil store keeps the
// log in memory only. Load failures are logged and yield an empty log.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInteractionLog(ctx context.Context, store LogStore, capacity int, logger zerolog.Logger) *InteractionLog {
	return newInteractionLog(ctx, store, capacity, logger, nopObserver{}, time.Now)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newInteractionLog(ctx context.Context, store LogStore, capacity int, logger zerolog.Logger, obs Observer, now func() time.Time) *InteractionLog {
	if capacity < 1 {
		capacity = DefaultConfig().LogCapacity
	}

	l := &InteractionLog{
		capacity: capacity,
		store:    store,
		logger:   logger.With().Str("component", "interaction_log").Logger(),
		observer: obs,
		now:      now,
	}
	l.hydrate(ctx)
	return l
}

func (l *InteractionLog) hydrate(ctx context.Context) {
	if l.store == nil {
		return
	}

	events, err := l.store.Load(ctx)
	if err != nil {
		l.observer.PersistFailed("load")
		l.logger.Warn().Err(err).Msg("failed to load interaction log, starting empty")
		return
	}

	if len(events) > l.capacity {
		l.logger.Info().
			Int("stored", len(events)).
			Int("capacity", l.capacity).
			Msg("trimming stored interaction log to capacity")
		events = events[len(events)-l.capacity:]
	}

	l.events = append(make([]InteractionEvent, 0, len(events)), events...)
	l.logger.Debug().Int("events", len(l.events)).Msg("interaction log loaded")
}

// Record appends a new event stamped with the current time and persists the
// log. Persistence failures are logged, never returned.
func (l *InteractionLog) Record(ctx context.Context, userID, productID string, action Action) InteractionEvent {
	event := InteractionEvent{
		UserID:    userID,
		ProductID: productID,
		Action:    action,
		Timestamp: l.now().UTC(),
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	if over := len(l.events) - l.capacity; over > 0 {
		l.events = append(make([]InteractionEvent, 0, l.capacity), l.events[over:]...)
	}
	size := len(l.events)

	// Saving under the lock keeps the stored order identical to the
	// in-memory order when writers race.
	if l.store != nil {
		if err := l.store.Save(ctx, l.events); err != nil {
			l.observer.PersistFailed("save")
			l.logger.Warn().Err(err).
				Str("user_id", userID).
				Str("product_id", productID).
				Msg("failed to persist interaction log")
		}
	}
	l.mu.Unlock()

	l.observer.InteractionRecorded(action.String(), size)
	return event
}

// Events returns a copy of the log in insertion order.
func (l *InteractionLog) Events() []InteractionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]InteractionEvent, len(l.events))
	copy(out, l.events)
	return out
}

// ForUser returns the events of userID in insertion order.
func (l *InteractionLog) ForUser(userID string) []InteractionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []InteractionEvent
	for i := range l.events {
		if l.events[i].UserID == userID {
			out = append(out, l.events[i])
		}
	}
	return out
}

// Len returns the number of events currently held.
func (l *InteractionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Capacity returns the maximum number of events the log holds.
func (l *InteractionLog) Capacity() int {
	return l.capacity
}
