package queries

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"
)

var ErrListRuleFailuresQueryIsNotConstructed = errors.New(
	"ListRuleFailuresQuery must be created via NewListRuleFailuresQuery constructor",
)

// ListRuleFailuresQuery lists failed rule actions, newest first, optionally
// narrowed to one rule or one order.
type ListRuleFailuresQuery struct {
	filter ports.FailureFilter

	guard guard.ConstructorGuard
}

func NewListRuleFailuresQuery(ruleID, orderID *kernel.UUID, limit int) (ListRuleFailuresQuery, error) {
	var joined []error
	if ruleID != nil {
		joined = append(joined, ruleID.Validate())
	}
	if orderID != nil {
		joined = append(joined, orderID.Validate())
	}
	if limit < 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize))
	}
	if err := errors.Join(joined...); err != nil {
		return ListRuleFailuresQuery{}, err
	}

	return ListRuleFailuresQuery{
		filter: ports.FailureFilter{
			RuleID:  kernel.CloneUUID(ruleID),
			OrderID: kernel.CloneUUID(orderID),
			Limit:   pageSize(limit),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListRuleFailuresQuery) Validate() error {
	return q.guard.Validate(ErrListRuleFailuresQueryIsNotConstructed)
}

func (q ListRuleFailuresQuery) Filter() ports.FailureFilter {
	return q.filter
}
