package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

const (
	maxTitleLength  = 200
	maxReasonLength = 2000
)

// Details carries the customer-supplied fields of a new order.
type Details struct {
	CustomerID  kernel.UUID
	Type        Type
	Title       string
	Description string
	Budget      *kernel.Money
	Priority    kernel.Priority
}

// Snapshot is an immutable copy of the order state. It is what repositories
// persist, what read models return, and what workflow conditions evaluate.
type Snapshot struct {
	ID                      kernel.UUID
	CustomerID              kernel.UUID
	Type                    Type
	Title                   string
	Description             string
	Budget                  *kernel.Money
	Status                  Status
	Priority                kernel.Priority
	AssignedAdmin           *kernel.UUID
	CustomPrice             *kernel.Money
	EstimatedCompletionDate *time.Time
	RejectionReason         string
	AdminNotes              string
	PaymentStatus           PaymentStatus
	Version                 int
	CreatedAt               time.Time
	UpdatedAt               time.Time
	UpdatedBy               *kernel.UUID
}

// Order is the aggregate root of a custom order. It owns the lifecycle state
// machine and records an Event for every observable change.
//
// Order follows these invariants:
//   - status is changed only through Transition
//   - status == Rejected exactly when rejectionReason is non-empty
//   - a positive customPrice only exists in Approved, PaymentPending,
//     InProgress or Completed
//   - a failed operation leaves every field untouched, updatedAt included
type Order struct {
	id                      kernel.UUID
	customerID              kernel.UUID
	orderType               Type
	title                   string
	description             string
	budget                  *kernel.Money
	status                  Status
	priority                kernel.Priority
	assignedAdmin           *kernel.UUID
	customPrice             *kernel.Money
	estimatedCompletionDate *time.Time
	rejectionReason         string
	adminNotes              string
	paymentStatus           PaymentStatus
	version                 int
	createdAt               time.Time
	updatedAt               time.Time
	updatedBy               *kernel.UUID

	events []Event

	isConstructed bool
}

// NewOrder creates a Pending order and records an order.created event.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
//	    CustomerID: customerID,
//	    Type:       order.TypeGame,
//	    Title:      "Co-op puzzle game",
//	    Priority:   kernel.PriorityMedium,
//	}, time.Now().UTC())
func NewOrder(id kernel.UUID, details Details, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentAwaited,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if details.Priority == "" {
		details.Priority = kernel.PriorityMedium
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(details.CustomerID),
		o.setType(details.Type),
		o.setTitle(details.Title),
		o.setBudget(details.Budget),
		o.setPriority(details.Priority),
	); err != nil {
		return nil, err
	}
	o.description = strings.TrimSpace(details.Description)

	o.record(Event{
		Type:       EventCreated,
		OldStatus:  Pending,
		NewStatus:  Pending,
		OccurredAt: now,
	})

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state, checking every
// invariant. It records no events.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		description:             s.Description,
		assignedAdmin:           kernel.CloneUUID(s.AssignedAdmin),
		estimatedCompletionDate: cloneTime(s.EstimatedCompletionDate),
		adminNotes:              s.AdminNotes,
		rejectionReason:         s.RejectionReason,
		customPrice:             cloneMoney(s.CustomPrice),
		version:                 s.Version,
		createdAt:               s.CreatedAt,
		updatedAt:               s.UpdatedAt,
		updatedBy:               kernel.CloneUUID(s.UpdatedBy),
		isConstructed:           true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setType(s.Type),
		o.setTitle(s.Title),
		o.setBudget(s.Budget),
		o.setPriority(s.Priority),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status
	o.paymentStatus = s.PaymentStatus

	if err := o.checkInvariants(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Type() Type {
	return o.orderType
}

func (o *Order) Title() string {
	return o.title
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Priority() kernel.Priority {
	return o.priority
}

// AssignedAdmin returns nil while the order is unassigned.
func (o *Order) AssignedAdmin() *kernel.UUID {
	return kernel.CloneUUID(o.assignedAdmin)
}

func (o *Order) CustomPrice() *kernel.Money {
	return cloneMoney(o.customPrice)
}

func (o *Order) RejectionReason() string {
	return o.rejectionReason
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Version is the optimistic concurrency counter of the last persisted state.
func (o *Order) Version() int {
	return o.version
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Snapshot returns a detached copy of the current state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                      o.id,
		CustomerID:              o.customerID,
		Type:                    o.orderType,
		Title:                   o.title,
		Description:             o.description,
		Budget:                  cloneMoney(o.budget),
		Status:                  o.status,
		Priority:                o.priority,
		AssignedAdmin:           kernel.CloneUUID(o.assignedAdmin),
		CustomPrice:             cloneMoney(o.customPrice),
		EstimatedCompletionDate: cloneTime(o.estimatedCompletionDate),
		RejectionReason:         o.rejectionReason,
		AdminNotes:              o.adminNotes,
		PaymentStatus:           o.paymentStatus,
		Version:                 o.version,
		CreatedAt:               o.createdAt,
		UpdatedAt:               o.updatedAt,
		UpdatedBy:               kernel.CloneUUID(o.updatedBy),
	}
}

// Transition moves the order along one lifecycle edge.
//
// Rules:
//   - the edge must exist in the lifecycle graph (IllegalTransitionError otherwise,
//     which also covers same-status moves and terminal sources)
//   - rejecting requires a non-blank reason
//   - notes, when given, replace adminNotes
//   - rejecting or cancelling drops an issued quote
//   - completing settles a payment that is still pending
//
// An order.status_changed event is recorded on success.
//
// Example:
//
//	if err := o.Transition(order.Rejected, "out of scope", "", &adminID, now); err != nil {
//	    return err
//	}
func (o *Order) Transition(to Status, reason, notes string, actor *kernel.UUID, at time.Time) error {
	if err := o.status.ValidateTransition(to); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if to == Rejected {
		if reason == "" {
			return errs.NewValueIsRequiredError("rejection reason")
		}
		if len(reason) > maxReasonLength {
			return errs.NewValueIsOutOfRangeError("rejection reason length", len(reason), 1, maxReasonLength)
		}
		o.rejectionReason = reason
	}

	if notes = strings.TrimSpace(notes); notes != "" {
		o.adminNotes = notes
	}

	switch to {
	case Rejected, Cancelled:
		o.customPrice = nil
		o.estimatedCompletionDate = nil
	case Completed:
		if o.paymentStatus == PaymentAwaited {
			o.paymentStatus = PaymentPaid
		}
	default:
	}

	old := o.status
	o.status = to
	o.touch(actor, at)
	o.record(Event{
		Type:       EventStatusChanged,
		OldStatus:  old,
		NewStatus:  to,
		ActorID:    kernel.CloneUUID(actor),
		OccurredAt: at,
	})

	return nil
}

// SetPrice issues or revises the quote. Only customPrice and
// estimatedCompletionDate change.
func (o *Order) SetPrice(price kernel.Money, estimated *time.Time, actor *kernel.UUID, at time.Time) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if !o.status.AllowsPricing() {
		return errs.NewInvalidStateError("set price", o.status)
	}

	o.customPrice = &price
	o.estimatedCompletionDate = cloneTime(estimated)
	o.touch(actor, at)

	return nil
}

// Assign hands the order to an administrator and records order.assigned.
// Re-assigning to the current admin is a no-op. Terminal orders cannot be
// reassigned.
func (o *Order) Assign(adminID kernel.UUID, actor *kernel.UUID, at time.Time) error {
	if err := adminID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidStateError("assign", o.status)
	}
	if o.assignedAdmin != nil && o.assignedAdmin.IsEqual(adminID) {
		return nil
	}

	previous := o.assignedAdmin
	o.assignedAdmin = &adminID
	o.touch(actor, at)
	o.record(Event{
		Type:          EventAssigned,
		OldStatus:     o.status,
		NewStatus:     o.status,
		PreviousAdmin: previous,
		AssignedAdmin: kernel.CloneUUID(&adminID),
		ActorID:       kernel.CloneUUID(actor),
		OccurredAt:    at,
	})

	return nil
}

// SetPriority changes the urgency. Setting the current priority is a no-op.
func (o *Order) SetPriority(p kernel.Priority, actor *kernel.UUID, at time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if o.priority == p {
		return nil
	}

	o.priority = p
	o.touch(actor, at)

	return nil
}

// SetPaymentStatus records settlement progress: pending -> paid -> refunded.
func (o *Order) SetPaymentStatus(p PaymentStatus, actor *kernel.UUID, at time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !o.paymentStatus.canTransitionTo(p) {
		return errs.NewIllegalTransitionError("payment", o.paymentStatus, p)
	}
	if p == PaymentPaid && (o.customPrice == nil || !o.customPrice.IsPositive()) {
		return errs.NewInvalidStateError("mark paid without a quote", o.status)
	}

	o.paymentStatus = p
	o.touch(actor, at)

	return nil
}

// Events returns the events recorded since the last PullEvents.
func (o *Order) Events() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// PullEvents returns the recorded events and clears them.
func (o *Order) PullEvents() []Event {
	out := o.events
	o.events = nil
	return out
}

// ConfirmSaved is called by repositories after a write guarded by Version
// succeeded.
func (o *Order) ConfirmSaved() {
	o.version++
}

func (o *Order) touch(actor *kernel.UUID, at time.Time) {
	o.updatedAt = at
	o.updatedBy = kernel.CloneUUID(actor)
}

func (o *Order) record(e Event) {
	e.ID = kernel.NewUUID()
	e.OrderID = o.id
	o.events = append(o.events, e)
}

func (o *Order) checkInvariants() error {
	if (o.status == Rejected) != (o.rejectionReason != "") {
		return errs.NewValueIsInvalidErrorWithCause("rejection reason",
			fmt.Errorf("status %s is inconsistent with rejection reason %q", o.status, o.rejectionReason))
	}
	if o.customPrice != nil && o.customPrice.IsPositive() && !o.status.canCarryPrice() {
		return errs.NewValueIsInvalidErrorWithCause("custom price",
			fmt.Errorf("status %s cannot carry a price", o.status))
	}
	if o.version < 1 {
		return errs.NewValueIsOutOfRangeError("version", o.version, 1, "unbounded")
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.orderType = t
	return nil
}

func (o *Order) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	if len(title) > maxTitleLength {
		return errs.NewValueIsOutOfRangeError("title length", len(title), 1, maxTitleLength)
	}
	o.title = title
	return nil
}

func (o *Order) setBudget(budget *kernel.Money) error {
	if budget == nil {
		o.budget = nil
		return nil
	}
	if err := budget.Validate(); err != nil {
		return err
	}
	o.budget = cloneMoney(budget)
	return nil
}

func (o *Order) setPriority(p kernel.Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}

func cloneMoney(m *kernel.Money) *kernel.Money {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
