package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/guard"
)

var ErrUpdateWorkflowRuleCommandIsNotConstructed = errors.New(
	"UpdateWorkflowRuleCommand must be created via NewUpdateWorkflowRuleCommand constructor",
)

// UpdateWorkflowRuleCommand replaces the definition of a rule. Execution
// counters are kept.
type UpdateWorkflowRuleCommand struct {
	ruleID     kernel.UUID
	definition workflow.Definition

	guard guard.ConstructorGuard
}

func NewUpdateWorkflowRuleCommand(ruleID kernel.UUID, definition workflow.Definition) (UpdateWorkflowRuleCommand, error) {
	if err := errors.Join(ruleID.Validate(), validateTemplates(definition)); err != nil {
		return UpdateWorkflowRuleCommand{}, err
	}

	return UpdateWorkflowRuleCommand{
		ruleID:     ruleID,
		definition: definition,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateWorkflowRuleCommand) Validate() error {
	return c.guard.Validate(ErrUpdateWorkflowRuleCommandIsNotConstructed)
}

func (c UpdateWorkflowRuleCommand) RuleID() kernel.UUID             { return c.ruleID }
func (c UpdateWorkflowRuleCommand) Definition() workflow.Definition { return c.definition }
