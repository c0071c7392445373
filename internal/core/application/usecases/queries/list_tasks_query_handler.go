package queries

import (
	"context"

	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/ports"
)

type ListTasksQueryHandler struct {
	reader ports.TaskReader
}

func NewListTasksQueryHandler(reader ports.TaskReader) ListTasksQueryHandler {
	return ListTasksQueryHandler{reader: reader}
}

func (h ListTasksQueryHandler) Handle(ctx context.Context, query ListTasksQuery) ([]task.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tasks, err := h.reader.ListTasks(ctx, query.Filter())
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = make([]task.Snapshot, 0)
	}
	return tasks, nil
}
