package services

import (
	"bitversity/internal/core/domain/model/order"
)

// BulkEligibility decides whether an order may take part in a bulk
// operation. Eligibility is derived from the lifecycle tables only, so a
// bulk run never touches an order the single-item operation would refuse.
type BulkEligibility struct{}

// NewBulkEligibility creates a new BulkEligibility instance.
func NewBulkEligibility() BulkEligibility {
	return BulkEligibility{}
}

// CanTransition reports whether o may move to target.
func (BulkEligibility) CanTransition(o *order.Order, target order.Status) bool {
	if o.Validate() != nil {
		return false
	}
	return o.Status().CanTransitionTo(target)
}

// CanAssign reports whether o accepts an assignment.
func (BulkEligibility) CanAssign(o *order.Order) bool {
	if o.Validate() != nil {
		return false
	}
	return !o.Status().IsTerminal()
}
