package events

import (
	"context"
	"errors"
	"log/slog"
)

// Publisher delivers notifications.
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// NoOpPublisher drops every notification.
type NoOpPublisher struct{}

// Publish is a no-op.
func (NoOpPublisher) Publish(context.Context, *Notification) error {
	return nil
}

// CallbackPublisher calls a function for each notification (for testing and
// in-process consumers).
type CallbackPublisher struct {
	callback func(ctx context.Context, n *Notification) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, n *Notification) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// Publish calls the callback.
func (p *CallbackPublisher) Publish(ctx context.Context, n *Notification) error {
	return p.callback(ctx, n)
}

// LogPublisher writes notifications to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher; a nil logger uses slog.Default().
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default().With("component", "notifications")
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the notification at Info (completed) or Warn (failed).
func (p *LogPublisher) Publish(ctx context.Context, n *Notification) error {
	level := slog.LevelInfo
	if n.Type == TypeComplianceFailed {
		level = slog.LevelWarn
	}
	p.logger.Log(ctx, level, "Notification",
		"type", n.Type,
		"tracker_id", n.TrackerID,
		"request_id", n.RequestID,
		"message", n.Message)
	return nil
}

// Multi fans a notification out to every publisher. All publishers are
// attempted; their errors are joined.
type Multi []Publisher

// Publish delivers n to each publisher in order.
func (m Multi) Publish(ctx context.Context, n *Notification) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
