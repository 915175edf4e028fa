// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/cache"
	"github.com/tidemart/recommender/internal/metrics"
	"github.com/tidemart/recommender/internal/recommend"
)

// Recorder is the part of recommend.Engine the consumer needs.
type Recorder interface {
	Record(ctx context.Context, userID, productID string, action recommend.Action) recommend.InteractionEvent
}

// Consumer feeds bus messages into a Recorder.
type Consumer struct {
	subscriber message.Subscriber
	topic      string
	recorder   Recorder
	seen       *cache.Deduper
	logger     zerolog.Logger
}

// NewConsumer creates a consumer for topic. An empty topic selects
// DefaultTopic. Messages whose UUID was already recorded within the last
// ten minutes are acked and skipped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(sub message.Subscriber, topic string, recorder Recorder, logger zerolog.Logger) (*Consumer, error) {
	if sub == nil {
		return nil, errors.New("events: subscriber is required")
	}
	if recorder == nil {
		return nil, errors.New("events: recorder is required")
	}
	if topic == "" {
		topic = DefaultTopic
	}

	return &Consumer{
		subscriber: sub,
		topic:      topic,
		recorder:   recorder,
		seen:       cache.NewDeduper(0, 0),
		logger:     logger.With().Str("component", "events_consumer").Str("topic", topic).Logger(),
	}, nil
}

// Topic returns the subscribed topic.
func (c *Consumer) Topic() string {
	return c.topic
}

// Run consumes messages until ctx is canceled or the subscription closes.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info().Msg("consuming interaction messages")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Info().Msg("subscription closed")
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

// handle records one message. Every message is acked: a malformed payload
// would fail again on redelivery.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	start := time.Now()
	defer msg.Ack()

	if c.seen.Seen(msg.UUID) {
		metrics.RecordEventConsumed(c.topic, "duplicate", time.Since(start))
		c.logger.Debug().Str("message_uuid", msg.UUID).Msg("skipping redelivered interaction message")
		return
	}

	m, err := DecodeInteraction(msg.Payload)
	if err != nil {
		metrics.RecordEventConsumed(c.topic, "malformed", time.Since(start))
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed interaction message")
		return
	}

	ev := c.recorder.Record(ctx, m.UserID, m.ProductID, recommend.Action(m.Action))
	metrics.RecordEventConsumed(c.topic, "recorded", time.Since(start))
	c.logger.Debug().
		Str("message_uuid", msg.UUID).
		Str("user_id", ev.UserID).
		Str("product_id", ev.ProductID).
		Str("action", ev.Action.String()).
		Msg("interaction recorded from bus")
}
