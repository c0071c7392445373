package workflow

import (
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

// ActionFailure is the audit record of one failed action.
type ActionFailure struct {
	ActionIndex int
	ActionKind  ActionKind
	Fatal       bool
	Cause       string
}

// Execution is the audit record of one matched rule run for one event.
type Execution struct {
	ID         kernel.UUID
	RuleID     kernel.UUID
	EventID    kernel.UUID
	EventType  order.EventType
	OrderID    kernel.UUID
	Succeeded  bool
	Failures   []ActionFailure
	ExecutedAt time.Time
}

// FailureRecord is an ActionFailure joined with its execution, as listed by
// the rule failure query.
type FailureRecord struct {
	ExecutionID kernel.UUID
	RuleID      kernel.UUID
	EventType   order.EventType
	OrderID     kernel.UUID
	ExecutedAt  time.Time
	ActionFailure
}
