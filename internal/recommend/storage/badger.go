// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/recommend"
)

// BadgerStore implements recommend.LogStore on top of BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	key    []byte
	ownsDB bool
}

// NewBadgerStore wraps an open database. The caller keeps ownership of db.
func NewBadgerStore(db *badger.DB, key string) *BadgerStore {
	if key == "" {
		key = DefaultKey
	}
	return &BadgerStore{db: db, key: []byte(key)}
}

// OpenBadgerStore opens (or creates) a database in dir. Closing the store
// closes the database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadgerStore(dir, key string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: logger.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	s := NewBadgerStore(db, key)
	s.ownsDB = true
	return s, nil
}

// Load implements recommend.LogStore.
func (s *BadgerStore) Load(ctx context.Context) ([]recommend.InteractionEvent, error) {
	if s.db.IsClosed() {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get interaction log: %w", err)
		}

		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return decodeLog(data)
}

// Save implements recommend.LogStore.
func (s *BadgerStore) Save(ctx context.Context, events []recommend.InteractionEvent) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}

	data, err := encodeLog(events)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(s.key, data); err != nil {
			return fmt.Errorf("set interaction log: %w", err)
		}
		return nil
	})
}

// Close closes the database when the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB || s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// badgerLogger routes BadgerDB's internal logging to zerolog. Badger's info
// output is chatty, so it is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(strings.TrimSpace(format), args...)
}
