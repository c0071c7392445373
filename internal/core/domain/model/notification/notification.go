// Package notification models messages addressed to administrators.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification")

// Type classifies why a notification was sent.
type Type string

const (
	TypeNewOrder           Type = "new_order"
	TypeOrderStatusChanged Type = "order_status_changed"
	TypeWorkflow           Type = "workflow"
	TypeTaskAssigned       Type = "task_assigned"
	TypeTaskOverdue        Type = "task_overdue"
)

func (t Type) Validate() error {
	switch t {
	case TypeNewOrder, TypeOrderStatusChanged, TypeWorkflow, TypeTaskAssigned, TypeTaskOverdue:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("notification type", fmt.Errorf("unknown type %q", string(t)))
	}
}

// Snapshot is the persisted state of a notification.
type Snapshot struct {
	ID          kernel.UUID
	RecipientID kernel.UUID
	Type        Type
	Message     string
	Metadata    map[string]string
	OrderID     *kernel.UUID
	DedupKey    string
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// Notification is a message for one administrator. DedupKey identifies the
// cause; storage keeps at most one notification per (recipient, DedupKey).
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	typ         Type
	message     string
	metadata    map[string]string
	orderID     *kernel.UUID
	dedupKey    string
	readAt      *time.Time
	createdAt   time.Time

	isConstructed bool
}

func NewNotification(id kernel.UUID, s Snapshot, now time.Time) (*Notification, error) {
	s.ID = id
	s.CreatedAt = now
	s.ReadAt = nil
	return build(s)
}

// RestoreNotification rebuilds a notification from storage.
func RestoreNotification(s Snapshot) (*Notification, error) {
	return build(s)
}

func build(s Snapshot) (*Notification, error) {
	var joined []error
	if err := s.ID.Validate(); err != nil {
		joined = append(joined, err)
	}
	if err := s.RecipientID.Validate(); err != nil {
		joined = append(joined, errs.NewValueIsRequiredErrorWithCause("recipient id", err))
	}
	if err := s.Type.Validate(); err != nil {
		joined = append(joined, err)
	}
	if strings.TrimSpace(s.Message) == "" {
		joined = append(joined, errs.NewValueIsRequiredError("message"))
	}
	if strings.TrimSpace(s.DedupKey) == "" {
		joined = append(joined, errs.NewValueIsRequiredError("dedup key"))
	}
	if err := errors.Join(joined...); err != nil {
		return nil, err
	}

	metadata := make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		metadata[k] = v
	}

	return &Notification{
		id:            s.ID,
		recipientID:   s.RecipientID,
		typ:           s.Type,
		message:       strings.TrimSpace(s.Message),
		metadata:      metadata,
		orderID:       kernel.CloneUUID(s.OrderID),
		dedupKey:      s.DedupKey,
		readAt:        cloneTime(s.ReadAt),
		createdAt:     s.CreatedAt,
		isConstructed: true,
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) RecipientID() kernel.UUID { return n.recipientID }
func (n *Notification) DedupKey() string         { return n.dedupKey }
func (n *Notification) IsRead() bool             { return n.readAt != nil }

// MarkRead sets readAt once; later calls keep the first timestamp.
func (n *Notification) MarkRead(at time.Time) {
	if n.readAt != nil {
		return
	}
	n.readAt = &at
}

// IsAddressedTo reports whether admin is the recipient.
func (n *Notification) IsAddressedTo(admin kernel.UUID) bool {
	return n.recipientID.IsEqual(admin)
}

func (n *Notification) Snapshot() Snapshot {
	metadata := make(map[string]string, len(n.metadata))
	for k, v := range n.metadata {
		metadata[k] = v
	}
	return Snapshot{
		ID:          n.id,
		RecipientID: n.recipientID,
		Type:        n.typ,
		Message:     n.message,
		Metadata:    metadata,
		OrderID:     kernel.CloneUUID(n.orderID),
		DedupKey:    n.dedupKey,
		ReadAt:      cloneTime(n.readAt),
		CreatedAt:   n.createdAt,
	}
}

// EventDedupKey is the key of a notification caused by a lifecycle event.
func EventDedupKey(eventID kernel.UUID) string {
	return "event:" + eventID.String()
}

// TaskDedupKey is the key of a notification caused by a task on a given day.
func TaskDedupKey(kind Type, taskID kernel.UUID, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", kind, taskID, day.UTC().Format(time.DateOnly))
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
