package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/workflow"
)

// CreateWorkflowRuleCommandHandler stores a new rule and invalidates the rule
// cache so the next event sees it.
type CreateWorkflowRuleCommandHandler struct {
	uowFactory RuleUoWFactory
	cache      RuleCacheInvalidator
	now        func() time.Time
}

func NewCreateWorkflowRuleCommandHandler(
	uowFactory RuleUoWFactory,
	cache RuleCacheInvalidator,
) CreateWorkflowRuleCommandHandler {
	return CreateWorkflowRuleCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h CreateWorkflowRuleCommandHandler) Handle(
	ctx context.Context,
	cmd CreateWorkflowRuleCommand,
) (workflow.RuleSnapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.RuleSnapshot{}, err
	}

	actor := cmd.ActorID()
	rule, err := workflow.NewRule(cmd.RuleID(), cmd.Definition(), &actor, h.now())
	if err != nil {
		return workflow.RuleSnapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return workflow.RuleSnapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WorkflowRuleRepository().Add(ctx, rule); err != nil {
		return workflow.RuleSnapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return workflow.RuleSnapshot{}, err
	}

	h.cache.Invalidate()
	return rule.Snapshot(), nil
}
