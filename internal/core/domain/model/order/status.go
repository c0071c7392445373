package order

import (
	"fmt"
	"strings"

	"bitversity/internal/pkg/errs"
)

// Status represents the lifecycle state of a custom order.
//
// State transitions:
//
//	Pending ──┬──> UnderReview ──┬──> Approved ──┬──> PaymentPending ──┬──> InProgress ──> Completed
//	          │                  │               │                     │
//	          └──────────────────┴───────────────┴──> InProgress ──────┘
//
//	Rejected:  reachable from Pending, UnderReview, Approved
//	Cancelled: reachable from every non-terminal state
//
// Completed, Rejected and Cancelled are terminal: no edge leaves them.
// Pending may also go straight to Approved.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a newly submitted order.
	Pending

	// UnderReview means an administrator is evaluating the request.
	UnderReview

	// Approved means the request was accepted and may be quoted.
	Approved

	// PaymentPending means a quote was issued and payment is awaited.
	PaymentPending

	// InProgress means work on the order has started.
	InProgress

	// Completed is a terminal state: the work was delivered.
	Completed

	// Rejected is a terminal state and always carries a rejection reason.
	Rejected

	// Cancelled is a terminal state reachable from any non-terminal state.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		UnderReview:    "under_review",
		Approved:       "approved",
		PaymentPending: "payment_pending",
		InProgress:     "in_progress",
		Completed:      "completed",
		Rejected:       "rejected",
		Cancelled:      "cancelled",
	}
}

// getAllowedTransitions is the single source of truth for lifecycle edges.
// Bulk eligibility is derived from it as well.
func getAllowedTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:        {UnderReview, Approved, Rejected, Cancelled},
		UnderReview:    {Approved, Rejected, Cancelled},
		Approved:       {PaymentPending, InProgress, Rejected, Cancelled},
		PaymentPending: {InProgress, Cancelled},
		InProgress:     {Completed, Cancelled},
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, UnderReview, Approved, PaymentPending, InProgress, Completed, Rejected, Cancelled}
}

// ParseStatus converts the persisted/textual name back into a Status.
//
// Example:
//
//	s, err := order.ParseStatus("under_review")
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the eight lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name used in storage, events and the API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition can leave s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Rejected || s == Cancelled
}

// AllowedTransitions returns the destinations reachable from s in one step.
func (s Status) AllowedTransitions() []Status {
	next := getAllowedTransitions()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether the edge s -> to exists.
// Same-status moves are never allowed.
func (s Status) CanTransitionTo(to Status) bool {
	for _, candidate := range getAllowedTransitions()[s] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an IllegalTransitionError when the edge s -> to
// is absent, and a validation error when to is not a valid status.
func (s Status) ValidateTransition(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(to) {
		return errs.NewIllegalTransitionError("order", s, to)
	}
	return nil
}

// AllowsPricing reports whether a quote may be set or changed in s.
func (s Status) AllowsPricing() bool {
	return s == Approved || s == PaymentPending
}

// canCarryPrice reports whether a positive custom price is consistent with s.
func (s Status) canCarryPrice() bool {
	return s == Approved || s == PaymentPending || s == InProgress || s == Completed
}
