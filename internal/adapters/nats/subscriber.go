package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for reading voyage events.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeVoyageEvents delivers new events for one voyage, or all voyages
// when voyageID is empty, through an ordered ephemeral consumer.
func (s *Subscriber) SubscribeVoyageEvents(ctx context.Context, voyageID string, handler func(ctx context.Context, event *domain.VoyageEvent) error) error {
	sub, err := s.js.Subscribe(VoyageFilter(voyageID), func(msg *nats.Msg) {
		var ev domain.VoyageEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("drop malformed voyage event", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, &ev); err != nil {
			slog.Warn("voyage event handler failed", "subject", msg.Subject, "error", err)
		}
	},
		nats.OrderedConsumer(),
		nats.DeliverNew(),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
