// Package order implements the custom-order aggregate and its lifecycle
// state machine.
//
// The package includes:
//   - Order: the aggregate root holding the request, quote, assignment and
//     payment state of a bespoke project or game
//   - Status: the lifecycle graph (pending, under_review, approved,
//     payment_pending, in_progress and the terminal completed, rejected,
//     cancelled)
//   - PaymentStatus and Type value enums
//   - Event: order.created, order.status_changed and order.assigned records
//     consumed by the workflow engine after commit
//
// Key business rules:
//   - status changes only through Order.Transition along an allowed edge
//   - a rejected order always carries a rejection reason
//   - a quote can be set only while approved or awaiting payment
//   - failed operations leave the aggregate untouched
package order
