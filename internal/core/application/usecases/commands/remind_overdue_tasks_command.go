package commands

import (
	"errors"

	"bitversity/internal/pkg/guard"
)

var ErrRemindOverdueTasksCommandIsNotConstructed = errors.New(
	"RemindOverdueTasksCommand must be created via NewRemindOverdueTasksCommand constructor",
)

// RemindOverdueTasksCommand notifies the assignees of open tasks past their
// due date. This is a parameterless command run by the scheduler.
type RemindOverdueTasksCommand struct {
	guard guard.ConstructorGuard
}

func NewRemindOverdueTasksCommand() RemindOverdueTasksCommand {
	return RemindOverdueTasksCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c RemindOverdueTasksCommand) Validate() error {
	return c.guard.Validate(ErrRemindOverdueTasksCommandIsNotConstructed)
}
