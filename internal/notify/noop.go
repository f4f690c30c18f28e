package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notifications. It
// is used when Pushover is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notifications with a
// log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards a notification.
func (n *NoOpNotifier) Send(_ context.Context, notif *Notification) error {
	n.log.Debug("notification discarded (no backend configured)",
		"title", notif.Title,
		"high_priority", notif.HighPriority,
	)
	return nil
}
