package queries

import (
	"context"

	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/ports"
)

type ListNotificationsQueryHandler struct {
	reader ports.NotificationReader
}

func NewListNotificationsQueryHandler(reader ports.NotificationReader) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{reader: reader}
}

func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListNotificationsQuery,
) ([]notification.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.reader.ListNotifications(ctx, query.Filter())
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = make([]notification.Snapshot, 0)
	}
	return list, nil
}
