package queries

import (
	"context"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/ports"
)

type GetOrderQueryHandler struct {
	reader ports.OrderReader
}

func NewGetOrderQueryHandler(reader ports.OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

// Handle returns errs.ObjectNotFoundError for unknown orders.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}
	return h.reader.FindOrder(ctx, query.OrderID())
}
