package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/metrics"
)

// TransitionOrderCommandHandler applies a lifecycle transition in its own
// transaction, serialized per order by a row lock, and dispatches
// order.status_changed after the commit.
//
// Example:
//
//	cmd, _ := NewTransitionOrderCommand(orderID, adminID, "rejected", "out of scope", "", nil)
//	snapshot, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrIllegalTransition):
//	    // the edge does not exist
//	case errors.Is(err, errs.ErrConcurrentModification):
//	    // reload and retry
//	}
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher EventDispatcher
	now        func() time.Time
}

func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory, dispatcher EventDispatcher) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	from := order.Unknown
	actor := cmd.ActorID()
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(_ OrderUoW, o *order.Order) error {
			from = o.Status()
			return o.Transition(cmd.Target(), cmd.Reason(), cmd.Notes(), &actor, h.now())
		})
	metrics.Get().Transition(from.String(), cmd.Target().String(), err)
	if err != nil {
		return order.Snapshot{}, err
	}

	snapshot := o.Snapshot()
	h.dispatcher.Dispatch(ctx, snapshot, o.PullEvents())

	return snapshot, nil
}
