package ports

import (
	"context"

	"bitversity/internal/core/domain/model/order"
)

// EventPublisher forwards committed lifecycle events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.Event) error
}
