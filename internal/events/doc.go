// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package events ingests interaction messages from the marketplace bus.
//
// Storefront and checkout services publish one message per user action to
// the "marketplace.interactions" topic:
//
//	{"user_id": "u1", "product_id": "p7", "action": "cart"}
//
// Consumer decodes each message and records it in the recommendation engine.
// Malformed messages are acknowledged and dropped with a warning so a single
// bad producer cannot wedge the subscription.
//
// Two transports are available through Watermill:
//
//   - memory: an in-process gochannel pub/sub, used in tests and single-binary
//     deployments where producers run in the same process
//   - nats: NATS JetStream (build with -tags=nats)
package events
