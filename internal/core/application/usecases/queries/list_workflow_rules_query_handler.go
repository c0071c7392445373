package queries

import (
	"context"

	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
)

type ListWorkflowRulesQueryHandler struct {
	reader ports.RuleReader
}

func NewListWorkflowRulesQueryHandler(reader ports.RuleReader) ListWorkflowRulesQueryHandler {
	return ListWorkflowRulesQueryHandler{reader: reader}
}

func (h ListWorkflowRulesQueryHandler) Handle(
	ctx context.Context,
	query ListWorkflowRulesQuery,
) ([]workflow.RuleSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rules, err := h.reader.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = make([]workflow.RuleSnapshot, 0)
	}
	return rules, nil
}
