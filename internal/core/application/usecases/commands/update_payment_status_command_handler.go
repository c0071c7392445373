package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/order"
)

type UpdatePaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewUpdatePaymentStatusCommandHandler(uowFactory OrderUoWFactory) UpdatePaymentStatusCommandHandler {
	return UpdatePaymentStatusCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h UpdatePaymentStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdatePaymentStatusCommand,
) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := cmd.ActorID()
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(_ OrderUoW, o *order.Order) error {
			return o.SetPaymentStatus(cmd.Status(), &actor, h.now())
		})
	if err != nil {
		return order.Snapshot{}, err
	}

	return o.Snapshot(), nil
}
