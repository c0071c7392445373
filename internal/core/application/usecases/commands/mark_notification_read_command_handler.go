package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/pkg/errs"
)

// MarkNotificationReadCommandHandler marks a notification read. Marking an
// already read notification keeps its original read time. Notifications of
// other administrators are reported as not found.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
	now        func() time.Time
}

func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h MarkNotificationReadCommandHandler) Handle(
	ctx context.Context,
	cmd MarkNotificationReadCommand,
) (notification.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return notification.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return notification.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, cmd.NotificationID())
	if err != nil {
		return notification.Snapshot{}, err
	}

	if !n.IsAddressedTo(cmd.ActorID()) {
		return notification.Snapshot{}, errs.NewObjectNotFoundError("notification", cmd.NotificationID().String())
	}

	if n.IsRead() {
		return n.Snapshot(), nil
	}

	n.MarkRead(h.now())
	if err = repo.Update(ctx, n); err != nil {
		return notification.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return notification.Snapshot{}, err
	}

	return n.Snapshot(), nil
}
