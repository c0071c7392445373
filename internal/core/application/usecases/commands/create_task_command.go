package commands

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/pkg/guard"
)

var ErrCreateTaskCommandIsNotConstructed = errors.New(
	"CreateTaskCommand must be created via NewCreateTaskCommand constructor",
)

// CreateTaskCommand creates a task, optionally linked to an order and
// assigned to an administrator.
type CreateTaskCommand struct { //nolint:recvcheck //using for validation
	draft task.Draft

	guard guard.ConstructorGuard
}

func NewCreateTaskCommand(
	orderID *kernel.UUID,
	title, description, priority string,
	dueDate *time.Time,
	assigneeID *kernel.UUID,
	estimatedHours *decimal.Decimal,
	actorID kernel.UUID,
) (CreateTaskCommand, error) {
	cmd := CreateTaskCommand{
		draft: task.Draft{
			OrderID:        kernel.CloneUUID(orderID),
			Title:          title,
			Description:    description,
			DueDate:        dueDate,
			AssignedAdmin:  kernel.CloneUUID(assigneeID),
			AssignedBy:     &actorID,
			EstimatedHours: estimatedHours,
		},
		guard: guard.NewConstructorGuard(),
	}

	var joined []error
	if orderID != nil {
		joined = append(joined, orderID.Validate())
	}
	if assigneeID != nil {
		joined = append(joined, assigneeID.Validate())
	}
	joined = append(joined, actorID.Validate(), cmd.setPriority(priority))
	if err := errors.Join(joined...); err != nil {
		return CreateTaskCommand{}, err
	}

	return cmd, nil
}

func (c CreateTaskCommand) Validate() error {
	return c.guard.Validate(ErrCreateTaskCommandIsNotConstructed)
}

func (c CreateTaskCommand) Draft() task.Draft {
	return c.draft
}

func (c *CreateTaskCommand) setPriority(s string) error {
	if s == "" {
		c.draft.Priority = kernel.PriorityMedium
		return nil
	}
	p, err := kernel.ParsePriority(s)
	if err != nil {
		return err
	}
	c.draft.Priority = p
	return nil
}
