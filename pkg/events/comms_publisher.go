package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"
)

const commsLogPrefix = "events:comms_publisher"

// CommsPublisher publishes notifications to NATS subjects derived from the
// notification type.
type CommsPublisher struct {
	nc *comms.Conn
}

// NewCommsPublisher creates a publisher on an established connection.
func NewCommsPublisher(nc *comms.Conn) *CommsPublisher {
	return &CommsPublisher{nc: nc}
}

// Publish encodes n as JSON and publishes it on Subject(n.Type).
func (p *CommsPublisher) Publish(_ context.Context, n *Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s - failed to encode notification: %w", commsLogPrefix, err)
	}
	subject := Subject(n.Type)
	if err := p.nc.Publish(subject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsLogPrefix, subject, err))
		return err
	}
	slog.Debug(fmt.Sprintf("%s - Published %s", commsLogPrefix, subject))
	return nil
}

// Connect opens a NATS connection with reconnect logging.
func Connect(url, name string) (*comms.Conn, error) {
	slog.Info(fmt.Sprintf("%s - Connecting to NATS at %s as %s", commsLogPrefix, url, name))

	nc, err := comms.Connect(url,
		comms.Name(name),
		comms.Timeout(10*time.Second),
		comms.ReconnectWait(2*time.Second),
		comms.MaxReconnects(60),
		comms.DisconnectErrHandler(func(_ *comms.Conn, err error) {
			slog.Warn(fmt.Sprintf("%s - NATS disconnected: %v", commsLogPrefix, err))
		}),
		comms.ReconnectHandler(func(nc *comms.Conn) {
			slog.Info(fmt.Sprintf("%s - NATS reconnected to %s", commsLogPrefix, nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to connect to NATS: %w", commsLogPrefix, err)
	}
	return nc, nil
}
