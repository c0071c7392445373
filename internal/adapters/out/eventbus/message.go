// Package eventbus forwards committed order events to a watermill topic and
// consumes them for auditing.
package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

// Topic carries every order lifecycle event.
const Topic = "order-events"

const (
	MetadataEventType = "event_type"
	MetadataOrderID   = "order_id"
)

type eventPayload struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	PreviousAdmin *string   `json:"previous_admin,omitempty"`
	AssignedAdmin *string   `json:"assigned_admin,omitempty"`
	ActorID       *string   `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewMessage encodes ev as a JSON watermill message.
func NewMessage(ev order.Event) (*message.Message, error) {
	payload, err := json.Marshal(eventPayload{
		ID:            ev.ID.String(),
		Type:          ev.Type.String(),
		OrderID:       ev.OrderID.String(),
		OldStatus:     ev.OldStatus.String(),
		NewStatus:     ev.NewStatus.String(),
		PreviousAdmin: optionalString(ev.PreviousAdmin),
		AssignedAdmin: optionalString(ev.AssignedAdmin),
		ActorID:       optionalString(ev.ActorID),
		OccurredAt:    ev.OccurredAt,
	})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewULID(), payload)
	msg.Metadata.Set(MetadataEventType, ev.Type.String())
	msg.Metadata.Set(MetadataOrderID, ev.OrderID.String())
	return msg, nil
}

// DecodeEvent is the inverse of NewMessage.
func DecodeEvent(msg *message.Message) (order.Event, error) {
	var p eventPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return order.Event{}, fmt.Errorf("decode order event: %w", err)
	}

	id, err := kernel.UUIDFromString(p.ID)
	if err != nil {
		return order.Event{}, err
	}
	orderID, err := kernel.UUIDFromString(p.OrderID)
	if err != nil {
		return order.Event{}, err
	}
	typ, err := order.ParseEventType(p.Type)
	if err != nil {
		return order.Event{}, err
	}
	oldStatus, err := order.ParseStatus(p.OldStatus)
	if err != nil {
		return order.Event{}, err
	}
	newStatus, err := order.ParseStatus(p.NewStatus)
	if err != nil {
		return order.Event{}, err
	}

	ev := order.Event{
		ID:         id,
		Type:       typ,
		OrderID:    orderID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		OccurredAt: p.OccurredAt.UTC(),
	}
	if ev.PreviousAdmin, err = optionalUUID(p.PreviousAdmin); err != nil {
		return order.Event{}, err
	}
	if ev.AssignedAdmin, err = optionalUUID(p.AssignedAdmin); err != nil {
		return order.Event{}, err
	}
	if ev.ActorID, err = optionalUUID(p.ActorID); err != nil {
		return order.Event{}, err
	}
	return ev, nil
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalUUID(s *string) (*kernel.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
