package ports

import (
	"context"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for notifications.
type NotificationRepository interface {
	// Add stores the notification unless one with the same recipient and
	// dedup key exists. It reports whether a row was created.
	Add(ctx context.Context, n *notification.Notification) (bool, error)

	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)
	Update(ctx context.Context, n *notification.Notification) error
}

// NotificationFilter selects one recipient's notifications.
type NotificationFilter struct {
	RecipientID kernel.UUID
	UnreadOnly  bool
	Limit       int
}

// NotificationReader lists notifications, newest first.
type NotificationReader interface {
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]notification.Snapshot, error)
}
