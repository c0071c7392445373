package queries

import (
	"context"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/ports"
)

type ListOrdersQueryHandler struct {
	reader ports.OrderReader
}

func NewListOrdersQueryHandler(reader ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.ListOrders(ctx, query.Filter())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = make([]order.Snapshot, 0)
	}
	return orders, nil
}
