package ports

import (
	"context"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes guarded by the aggregate's Version. A stale
	// version yields errs.ConcurrentModificationError; a missing row yields
	// errs.ObjectNotFoundError. On success the aggregate's version advances.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks it until the surrounding
	// transaction ends, serializing concurrent transitions of one order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderFilter narrows the order list. Zero values mean "no constraint".
type OrderFilter struct {
	Statuses      []order.Status
	AssignedAdmin *kernel.UUID
	Limit         int
	Offset        int
}

// OrderReader serves order read models. Lists are sorted by priority
// (most urgent first) then by creation time.
type OrderReader interface {
	FindOrder(ctx context.Context, id kernel.UUID) (order.Snapshot, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]order.Snapshot, error)
}
