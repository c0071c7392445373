package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/guard"
)

var ErrCreateWorkflowRuleCommandIsNotConstructed = errors.New(
	"CreateWorkflowRuleCommand must be created via NewCreateWorkflowRuleCommand constructor",
)

// CreateWorkflowRuleCommand defines a new automation rule.
//
// Example:
//
//	cmd, err := NewCreateWorkflowRuleCommand(kernel.NewUUID(), workflow.Definition{
//	    Name:     "Escalate game orders",
//	    Trigger:  order.EventCreated,
//	    Conditions: workflow.Conditions{
//	        {Field: workflow.FieldOrderType, Comparator: workflow.Eq, Value: "game"},
//	    },
//	    Actions:  []workflow.Action{workflow.SetPriorityAction{Priority: kernel.PriorityHigh}},
//	    IsActive: true,
//	}, adminID)
type CreateWorkflowRuleCommand struct {
	ruleID     kernel.UUID
	definition workflow.Definition
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateWorkflowRuleCommand(
	ruleID kernel.UUID,
	definition workflow.Definition,
	actorID kernel.UUID,
) (CreateWorkflowRuleCommand, error) {
	if err := errors.Join(
		ruleID.Validate(),
		actorID.Validate(),
		validateTemplates(definition),
	); err != nil {
		return CreateWorkflowRuleCommand{}, err
	}

	return CreateWorkflowRuleCommand{
		ruleID:     ruleID,
		definition: definition,
		actorID:    actorID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateWorkflowRuleCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkflowRuleCommandIsNotConstructed)
}

func (c CreateWorkflowRuleCommand) RuleID() kernel.UUID             { return c.ruleID }
func (c CreateWorkflowRuleCommand) Definition() workflow.Definition { return c.definition }
func (c CreateWorkflowRuleCommand) ActorID() kernel.UUID            { return c.actorID }
