// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrSubscriptionEnded is returned when the consumer stops while its context
// is still live. The supervisor restarts the service.
var ErrSubscriptionEnded = errors.New("event subscription ended")

// EventConsumer is satisfied by *events.Consumer.
type EventConsumer interface {
	Run(ctx context.Context) error
	Topic() string
}

// EventsService supervises an interaction event consumer.
type EventsService struct {
	consumer EventConsumer
	logger   zerolog.Logger
	name     string
}

// NewEventsService wraps consumer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventsService(consumer EventConsumer, logger zerolog.Logger) *EventsService {
	return &EventsService{
		consumer: consumer,
		logger:   logger.With().Str("service", "events").Str("topic", consumer.Topic()).Logger(),
		name:     "events-consumer-service",
	}
}

// Serve implements suture.Service.
func (s *EventsService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("events service starting")

	err := s.consumer.Run(ctx)
	if ctx.Err() != nil {
		s.logger.Info().Msg("events service stopping")
		return ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("event consumer failed")
		return fmt.Errorf("event consumer: %w", err)
	}
	s.logger.Warn().Msg("event subscription closed unexpectedly")
	return ErrSubscriptionEnded
}

// String implements fmt.Stringer.
func (s *EventsService) String() string {
	return s.name
}
