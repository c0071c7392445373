package commands

import (
	"context"
	"log/slog"

	"bitversity/internal/core/application/sink"
	"bitversity/internal/core/domain/model/task"
)

// CreateTaskCommandHandler stores a task and notifies its assignee. The task
// and the notification are written separately; a failed notification does
// not undo the task.
type CreateTaskCommandHandler struct {
	uowFactory TaskUoWFactory
	logger     *slog.Logger
}

func NewCreateTaskCommandHandler(uowFactory TaskUoWFactory, logger *slog.Logger) CreateTaskCommandHandler {
	return CreateTaskCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (h CreateTaskCommandHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (task.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return task.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	draft := cmd.Draft()
	if draft.AssignedAdmin != nil {
		if _, err := uow.AdminRepository().Get(ctx, *draft.AssignedAdmin); err != nil {
			return task.Snapshot{}, err
		}
	}

	t, err := sink.New(uow.NotificationRepository(), uow.TaskRepository(), h.logger).CreateTask(ctx, draft)
	if err != nil {
		return task.Snapshot{}, err
	}

	return t.Snapshot(), nil
}
