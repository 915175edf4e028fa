// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package events

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tidemart/recommender/internal/logging"
	"github.com/tidemart/recommender/internal/recommend"
)

// chanRecorder forwards recorded events to a channel.
type chanRecorder struct {
	events chan recommend.InteractionEvent
}

func (r *chanRecorder) Record(ctx context.Context, userID, productID string, action recommend.Action) recommend.InteractionEvent {
	ev := recommend.InteractionEvent{UserID: userID, ProductID: productID, Action: action, Timestamp: time.Now()}
	r.events <- ev
	return ev
}

func newPersistentPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{Persistent: true, OutputChannelBuffer: 16}, watermill.NopLogger{})
}

func publishRaw(t *testing.T, pub message.Publisher, topic string, payload string) {
	t.Helper()
	if err := pub.Publish(topic, message.NewMessage(watermill.NewUUID(), []byte(payload))); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestDecodeInteraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"user_id":"u1","product_id":"p1","action":"cart"}`, false},
		{"unknown action", `{"user_id":"u1","product_id":"p1","action":"wishlist"}`, false},
		{"extra fields", `{"user_id":"u1","product_id":"p1","action":"view","source":"web"}`, false},
		{"missing user", `{"product_id":"p1","action":"view"}`, true},
		{"bad action", `{"user_id":"u1","product_id":"p1","action":"DROP TABLE"}`, true},
		{"not json", `user_id=u1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeInteraction([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeInteraction() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConsumer_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := NewConsumer(nil, "", &chanRecorder{}, zerolog.Nop()); err == nil {
		t.Error("expected error for nil subscriber")
	}
	if _, err := NewConsumer(newPersistentPubSub(), "", nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil recorder")
	}

	c, err := NewConsumer(newPersistentPubSub(), "", &chanRecorder{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewConsumer() error = %v", err)
	}
	if c.Topic() != DefaultTopic {
		t.Errorf("Topic = %s, want %s", c.Topic(), DefaultTopic)
	}
}

func TestConsumer_RecordsAndSkipsMalformed(t *testing.T) {
	t.Parallel()

	pubsub := newPersistentPubSub()
	defer pubsub.Close()

	var logs bytes.Buffer
	rec := &chanRecorder{events: make(chan recommend.InteractionEvent, 4)}
	c, err := NewConsumer(pubsub, DefaultTopic, rec, logging.NewTestLogger(&logs))
	if err != nil {
		t.Fatalf("NewConsumer() error = %v", err)
	}

	good, err := NewInteractionMessage(InteractionMessage{UserID: "u1", ProductID: "p1", Action: "purchase"})
	if err != nil {
		t.Fatalf("NewInteractionMessage() error = %v", err)
	}
	if err := pubsub.Publish(DefaultTopic, good); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	publishRaw(t, pubsub, DefaultTopic, `{not json`)
	publishRaw(t, pubsub, DefaultTopic, `{"user_id":"u2","product_id":"p2"}`)
	publishRaw(t, pubsub, DefaultTopic, `{"user_id":"u3","product_id":"p3","action":"view"}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	want := []string{"u1", "u3"}
	for _, user := range want {
		select {
		case ev := <-rec.events:
			if ev.UserID != user {
				t.Errorf("recorded %s, want %s", ev.UserID, user)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", user)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if n := strings.Count(logs.String(), "dropping malformed interaction message"); n != 2 {
		t.Errorf("logged %d malformed drops, want 2", n)
	}
}

func TestConsumer_FeedsEngine(t *testing.T) {
	t.Parallel()

	pubsub := newPersistentPubSub()
	defer pubsub.Close()

	engine, err := recommend.NewEngine(context.Background(), nil, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	c, _ := NewConsumer(pubsub, "", engine, zerolog.Nop())

	msg, _ := NewInteractionMessage(InteractionMessage{UserID: "u9", ProductID: "p4", Action: "cart"})
	if err := pubsub.Publish(DefaultTopic, msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for engine.Interactions().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("engine never received the interaction")
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := engine.Interactions().ForUser("u9")
	if len(got) != 1 || got[0].Action != recommend.ActionCart {
		t.Errorf("history = %+v", got)
	}
}

func TestNewSubscriber_Backends(t *testing.T) {
	t.Parallel()

	cfg := DefaultSubscriberConfig("")
	sub, err := NewSubscriber(&cfg, logging.NewWatermillAdapter(zerolog.Nop()))
	if err != nil {
		t.Fatalf("memory backend error = %v", err)
	}
	if _, ok := sub.(*gochannel.GoChannel); !ok {
		t.Errorf("memory backend = %T, want *gochannel.GoChannel", sub)
	}
	_ = sub.Close()

	cfg.Backend = "kafka"
	if _, err := NewSubscriber(&cfg, nil); err == nil {
		t.Error("expected error for unknown backend")
	}

	if !NATSAvailable {
		cfg.Backend = BackendNATS
		if _, err := NewSubscriber(&cfg, nil); !errors.Is(err, ErrNATSUnavailable) {
			t.Errorf("nats backend error = %v, want ErrNATSUnavailable", err)
		}
	}
}

func TestConsumer_SkipsRedeliveredMessage(t *testing.T) {
	t.Parallel()

	pubsub := newPersistentPubSub()
	defer pubsub.Close()

	rec := &chanRecorder{events: make(chan recommend.InteractionEvent, 4)}
	c, err := NewConsumer(pubsub, "", rec, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewConsumer() error = %v", err)
	}

	first, _ := NewInteractionMessage(InteractionMessage{UserID: "u1", ProductID: "p1", Action: "cart"})
	redelivery := message.NewMessage(first.UUID, first.Payload)
	next, _ := NewInteractionMessage(InteractionMessage{UserID: "u2", ProductID: "p2", Action: "view"})
	for _, msg := range []*message.Message{first, redelivery, next} {
		if err := pubsub.Publish(DefaultTopic, msg); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	for _, user := range []string{"u1", "u2"} {
		select {
		case ev := <-rec.events:
			if ev.UserID != user {
				t.Errorf("recorded %s, want %s", ev.UserID, user)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", user)
		}
	}
}
