package commands

import (
	"context"
)

type DeleteWorkflowRuleCommandHandler struct {
	uowFactory RuleUoWFactory
	cache      RuleCacheInvalidator
}

func NewDeleteWorkflowRuleCommandHandler(
	uowFactory RuleUoWFactory,
	cache RuleCacheInvalidator,
) DeleteWorkflowRuleCommandHandler {
	return DeleteWorkflowRuleCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

func (h DeleteWorkflowRuleCommandHandler) Handle(ctx context.Context, cmd DeleteWorkflowRuleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WorkflowRuleRepository().Delete(ctx, cmd.RuleID()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.cache.Invalidate()
	return nil
}
