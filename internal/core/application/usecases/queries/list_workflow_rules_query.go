package queries

import (
	"errors"

	"bitversity/internal/pkg/guard"
)

var ErrListWorkflowRulesQueryIsNotConstructed = errors.New(
	"ListWorkflowRulesQuery must be created via NewListWorkflowRulesQuery constructor",
)

// ListWorkflowRulesQuery lists every rule, active or not, in creation order.
// This is a parameterless query.
type ListWorkflowRulesQuery struct {
	guard guard.ConstructorGuard
}

func NewListWorkflowRulesQuery() ListWorkflowRulesQuery {
	return ListWorkflowRulesQuery{guard: guard.NewConstructorGuard()}
}

func (q ListWorkflowRulesQuery) Validate() error {
	return q.guard.Validate(ErrListWorkflowRulesQueryIsNotConstructed)
}
