package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/workflow"
)

type UpdateWorkflowRuleCommandHandler struct {
	uowFactory RuleUoWFactory
	cache      RuleCacheInvalidator
	now        func() time.Time
}

func NewUpdateWorkflowRuleCommandHandler(
	uowFactory RuleUoWFactory,
	cache RuleCacheInvalidator,
) UpdateWorkflowRuleCommandHandler {
	return UpdateWorkflowRuleCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h UpdateWorkflowRuleCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateWorkflowRuleCommand,
) (workflow.RuleSnapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.RuleSnapshot{}, err
	}

	rule, err := changeRule(ctx, h.uowFactory, cmd.RuleID(), func(r *workflow.Rule) error {
		return r.Update(cmd.Definition(), h.now())
	})
	if err != nil {
		return workflow.RuleSnapshot{}, err
	}

	h.cache.Invalidate()
	return rule.Snapshot(), nil
}

// changeRule loads a rule, applies fn and stores it in one transaction.
func changeRule(
	ctx context.Context,
	factory RuleUoWFactory,
	id kernel.UUID,
	fn func(r *workflow.Rule) error,
) (*workflow.Rule, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WorkflowRuleRepository()
	rule, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = fn(rule); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, rule); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return rule, nil
}
