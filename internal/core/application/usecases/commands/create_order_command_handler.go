package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/order"
)

// CreateOrderCommandHandler registers new orders in the pending state and
// dispatches order.created once the order is stored.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher EventDispatcher
	now        func() time.Time
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, dispatcher EventDispatcher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Details(), h.now())
	if err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return order.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := o.Snapshot()
	h.dispatcher.Dispatch(ctx, snapshot, o.PullEvents())

	return snapshot, nil
}
