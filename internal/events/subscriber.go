// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ErrNATSUnavailable is returned when the nats backend is selected in a
// binary built without it.
var ErrNATSUnavailable = errors.New("NATS subscriber not available: build with -tags=nats")

// NewMemoryPubSub returns an in-process pub/sub.
func NewMemoryPubSub(bufferSize int64, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if bufferSize <= 0 {
		bufferSize = DefaultSubscriberConfig("").BufferSize
	}
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: bufferSize,
	}, logger)
}

// NewSubscriber creates a subscriber for cfg.Backend. The memory backend is
// an in-process channel for tests and embedding.
func NewSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryPubSub(cfg.BufferSize, logger), nil
	case BackendNATS:
		return NewNATSSubscriber(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
