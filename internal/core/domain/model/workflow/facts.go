package workflow

import (
	"bitversity/internal/core/domain/model/order"
)

// Facts is the flattened view of an order and its triggering event that
// conditions are evaluated against. Absent optional values are omitted.
type Facts map[Field]string

// NewFacts builds the facts for one event dispatch.
func NewFacts(subject order.Snapshot, event order.Event) Facts {
	f := Facts{
		FieldStatus:        subject.Status.String(),
		FieldPriority:      subject.Priority.String(),
		FieldOrderType:     subject.Type.String(),
		FieldPaymentStatus: subject.PaymentStatus.String(),
		FieldCustomer:      subject.CustomerID.String(),
	}
	if event.Type == order.EventStatusChanged {
		f[FieldPreviousStatus] = event.OldStatus.String()
	}
	if subject.AssignedAdmin != nil {
		f[FieldAssignedAdmin] = subject.AssignedAdmin.String()
	}
	if subject.CustomPrice != nil {
		f[FieldCustomPrice] = subject.CustomPrice.Amount().String()
	}
	if subject.Budget != nil {
		f[FieldBudget] = subject.Budget.Amount().String()
	}
	return f
}
