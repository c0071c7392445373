package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/guard"
)

var ErrDeleteWorkflowRuleCommandIsNotConstructed = errors.New(
	"DeleteWorkflowRuleCommand must be created via NewDeleteWorkflowRuleCommand constructor",
)

// DeleteWorkflowRuleCommand removes a rule. Its execution log is kept.
type DeleteWorkflowRuleCommand struct {
	ruleID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteWorkflowRuleCommand(ruleID kernel.UUID) (DeleteWorkflowRuleCommand, error) {
	if err := ruleID.Validate(); err != nil {
		return DeleteWorkflowRuleCommand{}, err
	}

	return DeleteWorkflowRuleCommand{
		ruleID: ruleID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteWorkflowRuleCommand) Validate() error {
	return c.guard.Validate(ErrDeleteWorkflowRuleCommandIsNotConstructed)
}

func (c DeleteWorkflowRuleCommand) RuleID() kernel.UUID {
	return c.ruleID
}
