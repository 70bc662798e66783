package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
)

const (
	// StreamName is the JetStream stream holding spatial data events.
	StreamName = "SPATIAL_DATA"
	// SubjectCreatedPrefix is followed by the record id.
	SubjectCreatedPrefix = "spatial.data.created."
	// SubjectAll matches every spatial data event.
	SubjectAll = "spatial.data.>"
)

// SubjectCreated is the subject a record's created event is published on.
func SubjectCreated(recordID int64) string {
	return SubjectCreatedPrefix + strconv.FormatInt(recordID, 10)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishSpatialDataCreated publishes the event on spatial.data.created.<id>.
// The event id doubles as the JetStream dedup id.
func (p *Publisher) PublishSpatialDataCreated(ctx context.Context, event *domain.SpatialDataCreated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectCreated(event.RecordID), data, nats.Context(ctx), nats.MsgId(event.EventID))
	return err
}

// Conn exposes the underlying connection for readiness checks and the
// WebSocket relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection with reconnects enabled.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("spatialdata"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
