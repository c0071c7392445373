package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/order"
)

// AssignOrderCommandHandler assigns an order to an active administrator and
// dispatches order.assigned.
type AssignOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher EventDispatcher
	now        func() time.Time
}

func NewAssignOrderCommandHandler(uowFactory OrderUoWFactory, dispatcher EventDispatcher) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := cmd.ActorID()
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(uow OrderUoW, o *order.Order) error {
			if _, err := uow.AdminRepository().Get(ctx, cmd.AdminID()); err != nil {
				return err
			}
			return o.Assign(cmd.AdminID(), &actor, h.now())
		})
	if err != nil {
		return order.Snapshot{}, err
	}

	snapshot := o.Snapshot()
	h.dispatcher.Dispatch(ctx, snapshot, o.PullEvents())

	return snapshot, nil
}
