// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package events

import "time"

// DefaultTopic is the bus topic interaction messages are published to.
const DefaultTopic = "marketplace.interactions"

// Backend names accepted by NewSubscriber.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	Backend          string
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration

	// StreamName binds to an existing JetStream stream instead of
	// provisioning one named after the topic.
	StreamName string

	// BufferSize is the output buffer of the memory backend.
	BufferSize int64
}

// DefaultSubscriberConfig returns production defaults for subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		Backend:          BackendMemory,
		URL:              url,
		DurableName:      "recommender",
		QueueGroup:       "recommenders",
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    1000,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		BufferSize:       256,
	}
}
