package commands

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/workflow"
)

type ToggleWorkflowRuleCommandHandler struct {
	uowFactory RuleUoWFactory
	cache      RuleCacheInvalidator
	now        func() time.Time
}

func NewToggleWorkflowRuleCommandHandler(
	uowFactory RuleUoWFactory,
	cache RuleCacheInvalidator,
) ToggleWorkflowRuleCommandHandler {
	return ToggleWorkflowRuleCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h ToggleWorkflowRuleCommandHandler) Handle(
	ctx context.Context,
	cmd ToggleWorkflowRuleCommand,
) (workflow.RuleSnapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.RuleSnapshot{}, err
	}

	rule, err := changeRule(ctx, h.uowFactory, cmd.RuleID(), func(r *workflow.Rule) error {
		r.SetActive(cmd.Active(), h.now())
		return nil
	})
	if err != nil {
		return workflow.RuleSnapshot{}, err
	}

	h.cache.Invalidate()
	return rule.Snapshot(), nil
}
