package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/pkg/guard"
)

var ErrUpdateTaskStatusCommandIsNotConstructed = errors.New(
	"UpdateTaskStatusCommand must be created via NewUpdateTaskStatusCommand constructor",
)

// UpdateTaskStatusCommand moves a task to a new status, optionally recording
// the hours actually spent.
type UpdateTaskStatusCommand struct { //nolint:recvcheck //using for validation
	taskID      kernel.UUID
	status      task.Status
	actualHours *decimal.Decimal

	guard guard.ConstructorGuard
}

func NewUpdateTaskStatusCommand(
	taskID kernel.UUID,
	status string,
	actualHours *decimal.Decimal,
) (UpdateTaskStatusCommand, error) {
	cmd := UpdateTaskStatusCommand{
		actualHours: actualHours,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(taskID.Validate(), cmd.setStatus(status)); err != nil {
		return UpdateTaskStatusCommand{}, err
	}
	cmd.taskID = taskID

	return cmd, nil
}

func (c UpdateTaskStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTaskStatusCommandIsNotConstructed)
}

func (c UpdateTaskStatusCommand) TaskID() kernel.UUID           { return c.taskID }
func (c UpdateTaskStatusCommand) Status() task.Status           { return c.status }
func (c UpdateTaskStatusCommand) ActualHours() *decimal.Decimal { return c.actualHours }

func (c *UpdateTaskStatusCommand) setStatus(s string) error {
	status, err := task.ParseStatus(s)
	if err != nil {
		return err
	}
	c.status = status
	return nil
}
