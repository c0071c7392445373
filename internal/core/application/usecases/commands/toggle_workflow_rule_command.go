package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/guard"
)

var ErrToggleWorkflowRuleCommandIsNotConstructed = errors.New(
	"ToggleWorkflowRuleCommand must be created via NewToggleWorkflowRuleCommand constructor",
)

// ToggleWorkflowRuleCommand enables or disables a rule.
type ToggleWorkflowRuleCommand struct {
	ruleID kernel.UUID
	active bool

	guard guard.ConstructorGuard
}

func NewToggleWorkflowRuleCommand(ruleID kernel.UUID, active bool) (ToggleWorkflowRuleCommand, error) {
	if err := ruleID.Validate(); err != nil {
		return ToggleWorkflowRuleCommand{}, err
	}

	return ToggleWorkflowRuleCommand{
		ruleID: ruleID,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ToggleWorkflowRuleCommand) Validate() error {
	return c.guard.Validate(ErrToggleWorkflowRuleCommandIsNotConstructed)
}

func (c ToggleWorkflowRuleCommand) RuleID() kernel.UUID { return c.ruleID }
func (c ToggleWorkflowRuleCommand) Active() bool        { return c.active }
