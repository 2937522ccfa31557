// Package events publishes document activity to a NATS message bus so that
// downstream consumers (notifications, search indexers) can react without
// polling the audit table.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"docvault/internal/domain/models"
)

// SubjectPrefix is the root of all activity subjects. Messages go out on
// "documents.activity.<kind>", e.g. "documents.activity.created".
const SubjectPrefix = "documents.activity"

// NatsPublisher broadcasts activity entries over NATS
type NatsPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNatsPublisher connects to the NATS server at url
func NewNatsPublisher(url string, logger *slog.Logger) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("docvault"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NatsPublisher{conn: conn, logger: logger}, nil
}

// Publish sends the activity entry on its kind's subject. Delivery is
// fire-and-forget; the caller has already persisted the row.
func (p *NatsPublisher) Publish(_ context.Context, activity *models.DocumentActivity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("encode activity %s: %w", activity.ID, err)
	}

	subject := fmt.Sprintf("%s.%s", SubjectPrefix, activity.Kind)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish activity %s: %w", activity.ID, err)
	}
	return nil
}

// Close drains the connection
func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err)
	}
}

// NopPublisher discards all activity. Used when no message bus is configured
// and in tests.
type NopPublisher struct{}

// Publish discards the activity
func (NopPublisher) Publish(context.Context, *models.DocumentActivity) error { return nil }
