package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes routing events on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to NATS and returns a publisher.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("bablit-router"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// PublishMessageRouted publishes a routed-message event. Fire-and-forget;
// the router logs failures but never blocks on them.
func (p *NATSPublisher) PublishMessageRouted(ctx context.Context, event MessageRouted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal routed event: %w", err)
	}

	if err := p.conn.Publish(SubjectMessageRouted, data); err != nil {
		return fmt.Errorf("publish routed event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
