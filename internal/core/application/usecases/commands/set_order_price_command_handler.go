package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/order"
)

// SetOrderPriceCommandHandler stores a quote. Pricing records no lifecycle
// event, so nothing is dispatched.
type SetOrderPriceCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewSetOrderPriceCommandHandler(uowFactory OrderUoWFactory) SetOrderPriceCommandHandler {
	return SetOrderPriceCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h SetOrderPriceCommandHandler) Handle(ctx context.Context, cmd SetOrderPriceCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := cmd.ActorID()
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(_ OrderUoW, o *order.Order) error {
			return o.SetPrice(cmd.Price(), cmd.EstimatedDate(), &actor, h.now())
		})
	if err != nil {
		return order.Snapshot{}, err
	}

	return o.Snapshot(), nil
}
