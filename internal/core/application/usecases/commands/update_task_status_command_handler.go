package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/task"
)

type UpdateTaskStatusCommandHandler struct {
	uowFactory TaskUoWFactory
	now        func() time.Time
}

func NewUpdateTaskStatusCommandHandler(uowFactory TaskUoWFactory) UpdateTaskStatusCommandHandler {
	return UpdateTaskStatusCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h UpdateTaskStatusCommandHandler) Handle(ctx context.Context, cmd UpdateTaskStatusCommand) (task.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return task.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return task.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TaskRepository()
	t, err := repo.Get(ctx, cmd.TaskID())
	if err != nil {
		return task.Snapshot{}, err
	}

	if err = t.UpdateStatus(cmd.Status(), cmd.ActualHours(), h.now()); err != nil {
		return task.Snapshot{}, err
	}

	if err = repo.Update(ctx, t); err != nil {
		return task.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return task.Snapshot{}, err
	}

	return t.Snapshot(), nil
}
