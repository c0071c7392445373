package ports

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
)

// TaskRepository defines the persistence contract for tasks.
type TaskRepository interface {
	Add(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	Get(ctx context.Context, id kernel.UUID) (*task.Task, error)

	// ListOverdue returns open tasks whose due date is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]*task.Task, error)
}

// TaskFilter narrows the task list. Zero values mean "no constraint".
type TaskFilter struct {
	AssignedAdmin *kernel.UUID
	OrderID       *kernel.UUID
	Statuses      []task.Status
	Limit         int
}

// TaskReader lists tasks ordered by due date, undated last.
type TaskReader interface {
	ListTasks(ctx context.Context, filter TaskFilter) ([]task.Snapshot, error)
}
