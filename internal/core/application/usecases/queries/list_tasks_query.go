package queries

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"
)

var ErrListTasksQueryIsNotConstructed = errors.New(
	"ListTasksQuery must be created via NewListTasksQuery constructor",
)

// ListTasksQuery lists tasks by due date, undated tasks last.
type ListTasksQuery struct {
	filter ports.TaskFilter

	guard guard.ConstructorGuard
}

func NewListTasksQuery(assignedAdmin, orderID *kernel.UUID, statuses []string, limit int) (ListTasksQuery, error) {
	var joined []error
	if assignedAdmin != nil {
		joined = append(joined, assignedAdmin.Validate())
	}
	if orderID != nil {
		joined = append(joined, orderID.Validate())
	}
	parsed := make([]task.Status, 0, len(statuses))
	for _, s := range statuses {
		status, err := task.ParseStatus(s)
		if err != nil {
			joined = append(joined, err)
			continue
		}
		parsed = append(parsed, status)
	}
	if limit < 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize))
	}
	if err := errors.Join(joined...); err != nil {
		return ListTasksQuery{}, err
	}

	return ListTasksQuery{
		filter: ports.TaskFilter{
			AssignedAdmin: kernel.CloneUUID(assignedAdmin),
			OrderID:       kernel.CloneUUID(orderID),
			Statuses:      parsed,
			Limit:         pageSize(limit),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListTasksQuery) Validate() error {
	return q.guard.Validate(ErrListTasksQueryIsNotConstructed)
}

func (q ListTasksQuery) Filter() ports.TaskFilter {
	return q.filter
}
