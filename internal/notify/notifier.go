// Package notify defines the notification interface and implementations
// for push alert delivery.
package notify

import (
	"context"
)

// Notification contains the data for one push alert. Message may carry
// simple HTML markup (<b>, <br>) interpreted by the receiving client.
type Notification struct {
	Title        string
	Message      string
	HighPriority bool
}

// Notifier defines the interface for sending push notifications.
type Notifier interface {
	Send(ctx context.Context, n *Notification) error
}
