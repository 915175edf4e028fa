// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

// Package testinfra starts real dependencies in Docker for integration tests
// using testcontainers-go.
//
// Every file is behind the integration build tag:
//
//	go test -tags "integration,nats" ./internal/events/...
//
// # NATS
//
// NewNATSContainer runs a JetStream-enabled NATS server:
//
//	func TestConsumerAgainstNATS(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    natsC, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, natsC)
//
//	    cfg := events.DefaultSubscriberConfig(natsC.URL)
//	    ...
//	}
//
// Tests skip when Docker is unavailable.
package testinfra
