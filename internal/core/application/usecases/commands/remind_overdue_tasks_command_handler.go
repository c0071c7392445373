package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bitversity/internal/core/application/sink"
	"bitversity/internal/core/domain/model/notification"
)

// RemindOverdueTasksCommandHandler sends at most one reminder per task and
// day, so the job can run as often as it likes.
type RemindOverdueTasksCommandHandler struct {
	uowFactory TaskUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

func NewRemindOverdueTasksCommandHandler(uowFactory TaskUoWFactory, logger *slog.Logger) RemindOverdueTasksCommandHandler {
	return RemindOverdueTasksCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle returns the number of reminders created.
func (h RemindOverdueTasksCommandHandler) Handle(ctx context.Context, cmd RemindOverdueTasksCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.now()
	uow := h.uowFactory.Create()
	overdue, err := uow.TaskRepository().ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	out := sink.New(uow.NotificationRepository(), uow.TaskRepository(), h.logger)
	created := 0
	for _, t := range overdue {
		assignee := t.AssignedAdmin()
		if assignee == nil {
			continue
		}
		snap := t.Snapshot()
		ok, err := out.NotifyOnce(ctx, notification.TaskDedupKey(notification.TypeTaskOverdue, snap.ID, now),
			sink.NotificationDraft{
				RecipientID: *assignee,
				Type:        notification.TypeTaskOverdue,
				Message:     fmt.Sprintf("Task %q was due on %s", snap.Title, snap.DueDate.Format(time.DateOnly)),
				Metadata:    map[string]string{"task_id": snap.ID.String()},
				OrderID:     snap.OrderID,
			})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	return created, nil
}
