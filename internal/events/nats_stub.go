// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

//go:build !nats

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NATSAvailable reports whether the binary was built with NATS support.
const NATSAvailable = false

// NewNATSSubscriber returns ErrNATSUnavailable.
func NewNATSSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return nil, ErrNATSUnavailable
}
