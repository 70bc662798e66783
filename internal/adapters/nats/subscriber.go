package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/core/ports"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber creates a subscriber. Subscribers sharing durable share the
// work queue, so each event is handled once per deployment.
func NewSubscriber(url, durable string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js, durable: durable}, nil
}

// SubscribeSpatialDataCreated delivers created events to handler. A handler
// error naks the message for redelivery, up to three attempts.
func (s *Subscriber) SubscribeSpatialDataCreated(ctx context.Context, handler func(ctx context.Context, event *domain.SpatialDataCreated) error) error {
	sub, err := s.js.QueueSubscribe(SubjectCreatedPrefix+"*", s.durable, func(msg *nats.Msg) {
		var event domain.SpatialDataCreated
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("drop malformed spatial data event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			slog.Warn("spatial data event handler failed", "record_id", event.RecordID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(s.durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
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

var (
	_ ports.EventPublisher  = (*Publisher)(nil)
	_ ports.EventSubscriber = (*Subscriber)(nil)
)
