package order

import (
	"fmt"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

// EventType names a lifecycle occurrence that workflow rules can react to.
type EventType string

const (
	EventCreated       EventType = "order.created"
	EventStatusChanged EventType = "order.status_changed"
	EventAssigned      EventType = "order.assigned"
)

func AllEventTypes() []EventType {
	return []EventType{EventCreated, EventStatusChanged, EventAssigned}
}

func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t EventType) Validate() error {
	switch t {
	case EventCreated, EventStatusChanged, EventAssigned:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("event type", fmt.Errorf("%q is not a known event", string(t)))
	}
}

func (t EventType) String() string {
	return string(t)
}

// Event is recorded by the Order aggregate on every observable change and
// dispatched after the change is committed.
//
// OldStatus/NewStatus are set for status changes; for other events both
// carry the status at the time of the event. PreviousAdmin/AssignedAdmin are
// set for assignment events.
type Event struct {
	ID            kernel.UUID
	Type          EventType
	OrderID       kernel.UUID
	OldStatus     Status
	NewStatus     Status
	PreviousAdmin *kernel.UUID
	AssignedAdmin *kernel.UUID
	ActorID       *kernel.UUID
	OccurredAt    time.Time
}
