// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tidemart/recommender/internal/validation"
)

// InteractionMessage is the payload of a bus interaction message.
type InteractionMessage struct {
	UserID    string `json:"user_id" validate:"required,identifier"`
	ProductID string `json:"product_id" validate:"required,identifier"`
	Action    string `json:"action" validate:"required,action"`
}

// DecodeInteraction parses and validates a message payload.
func DecodeInteraction(payload []byte) (*InteractionMessage, error) {
	var m InteractionMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode interaction: %w", err)
	}
	if verr := validation.ValidateStruct(&m); verr != nil {
		return nil, fmt.Errorf("invalid interaction: %w", verr)
	}
	return &m, nil
}

// NewInteractionMessage builds a bus message for publishing.
func NewInteractionMessage(m InteractionMessage) (*message.Message, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode interaction: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("content_type", "application/json")
	return msg, nil
}
