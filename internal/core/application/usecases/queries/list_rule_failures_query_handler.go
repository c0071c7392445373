package queries

import (
	"context"

	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
)

type ListRuleFailuresQueryHandler struct {
	reader ports.RuleFailureReader
}

func NewListRuleFailuresQueryHandler(reader ports.RuleFailureReader) ListRuleFailuresQueryHandler {
	return ListRuleFailuresQueryHandler{reader: reader}
}

func (h ListRuleFailuresQueryHandler) Handle(
	ctx context.Context,
	query ListRuleFailuresQuery,
) ([]workflow.FailureRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	failures, err := h.reader.ListFailures(ctx, query.Filter())
	if err != nil {
		return nil, err
	}
	if failures == nil {
		failures = make([]workflow.FailureRecord, 0)
	}
	return failures, nil
}
