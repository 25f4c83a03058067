// Package notify provides the outbound notification adapter. The real
// messaging channel (push, SMS, email) is owned by a separate subsystem; this
// adapter emits structured log records in its place so the dispatch flows and
// their payloads stay observable end to end.
package notify

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// SlogNotificationDispatcher implements ports.NotificationDispatcher by
// writing each notification as a structured log record.
type SlogNotificationDispatcher struct {
	logger *slog.Logger
}

// NewSlogNotificationDispatcher creates a log-backed notification dispatcher.
func NewSlogNotificationDispatcher(logger *slog.Logger) *SlogNotificationDispatcher {
	return &SlogNotificationDispatcher{
		logger: logger.With("component", "notification_dispatcher"),
	}
}

// Notify records the notification. Never fails.
func (d *SlogNotificationDispatcher) Notify(ctx context.Context, notification ports.Notification) error {
	d.logger.InfoContext(ctx, "notification dispatched",
		"recipient", notification.Recipient.String(),
		"role", string(notification.Role),
		"type", notification.Type,
		"payload", notification.Payload,
	)
	return nil
}
