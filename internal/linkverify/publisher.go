package linkverify

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Publisher sends broken-link events to NATS. It is optional plumbing: the
// validator's pass/fail result never depends on it.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the given NATS URL.
func NewPublisher(natsURL, subject string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("NATS publisher connected", slog.String("url", natsURL), slog.String("subject", subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one event.
func (p *Publisher) Publish(event *BrokenLinkEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal broken-link event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish broken-link event: %w", err)
	}
	return nil
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Flush()
		p.conn.Close()
	}
}
