// Package task models follow-up work items for administrators. Tasks may be
// linked to an order but their status is independent of the order lifecycle.
package task

import (
	"errors"
	"strings"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask")

const maxTitleLength = 200

// Draft carries the fields of a new task.
type Draft struct {
	OrderID        *kernel.UUID
	Title          string
	Description    string
	Priority       kernel.Priority
	DueDate        *time.Time
	AssignedAdmin  *kernel.UUID
	AssignedBy     *kernel.UUID
	EstimatedHours *decimal.Decimal
}

// Snapshot is the persisted state of a task.
type Snapshot struct {
	ID             kernel.UUID
	OrderID        *kernel.UUID
	Title          string
	Description    string
	Status         Status
	Priority       kernel.Priority
	DueDate        *time.Time
	AssignedAdmin  *kernel.UUID
	AssignedBy     *kernel.UUID
	EstimatedHours *decimal.Decimal
	ActualHours    *decimal.Decimal
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Task struct {
	s             Snapshot
	isConstructed bool
}

// NewTask creates a pending task.
//
// Example:
//
//	due := now.AddDate(0, 0, 3)
//	t, err := task.NewTask(kernel.NewUUID(), task.Draft{
//	    OrderID:       &orderID,
//	    Title:         "Prepare quote",
//	    Priority:      kernel.PriorityHigh,
//	    DueDate:       &due,
//	    AssignedAdmin: &adminID,
//	}, now)
func NewTask(id kernel.UUID, d Draft, now time.Time) (*Task, error) {
	if d.Priority == "" {
		d.Priority = kernel.PriorityMedium
	}

	var joined []error
	if err := id.Validate(); err != nil {
		joined = append(joined, err)
	}
	switch title := strings.TrimSpace(d.Title); {
	case title == "":
		joined = append(joined, errs.NewValueIsRequiredError("task title"))
	case len(title) > maxTitleLength:
		joined = append(joined, errs.NewValueIsOutOfRangeError("task title length", len(title), 1, maxTitleLength))
	}
	if err := d.Priority.Validate(); err != nil {
		joined = append(joined, err)
	}
	if err := validateHours("estimated hours", d.EstimatedHours); err != nil {
		joined = append(joined, err)
	}
	if err := errors.Join(joined...); err != nil {
		return nil, err
	}

	return &Task{
		s: Snapshot{
			ID:             id,
			OrderID:        kernel.CloneUUID(d.OrderID),
			Title:          strings.TrimSpace(d.Title),
			Description:    strings.TrimSpace(d.Description),
			Status:         StatusPending,
			Priority:       d.Priority,
			DueDate:        cloneTime(d.DueDate),
			AssignedAdmin:  kernel.CloneUUID(d.AssignedAdmin),
			AssignedBy:     kernel.CloneUUID(d.AssignedBy),
			EstimatedHours: cloneDecimal(d.EstimatedHours),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		isConstructed: true,
	}, nil
}

// RestoreTask rebuilds a task from storage.
func RestoreTask(s Snapshot) (*Task, error) {
	if err := errors.Join(s.ID.Validate(), s.Status.Validate(), s.Priority.Validate()); err != nil {
		return nil, err
	}
	return &Task{s: cloneSnapshot(s), isConstructed: true}, nil
}

func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}
	return nil
}

func (t *Task) ID() kernel.UUID             { return t.s.ID }
func (t *Task) Status() Status              { return t.s.Status }
func (t *Task) Title() string               { return t.s.Title }
func (t *Task) AssignedAdmin() *kernel.UUID { return kernel.CloneUUID(t.s.AssignedAdmin) }
func (t *Task) Snapshot() Snapshot          { return cloneSnapshot(t.s) }

// UpdateStatus moves the task along its status graph. actualHours, when
// given, must be non-negative and is stored with the change. Completing
// sets completedAt.
func (t *Task) UpdateStatus(to Status, actualHours *decimal.Decimal, at time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !t.s.Status.CanTransitionTo(to) {
		return errs.NewIllegalTransitionError("task", t.s.Status, to)
	}
	if err := validateHours("actual hours", actualHours); err != nil {
		return err
	}

	t.s.Status = to
	if actualHours != nil {
		t.s.ActualHours = cloneDecimal(actualHours)
	}
	if to == StatusCompleted {
		t.s.CompletedAt = &at
	}
	t.s.UpdatedAt = at
	return nil
}

// IsOverdue reports whether an open task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.s.Status.IsTerminal() && t.s.DueDate != nil && now.After(*t.s.DueDate)
}

func validateHours(name string, hours *decimal.Decimal) error {
	if hours != nil && hours.IsNegative() {
		return errs.NewValueIsOutOfRangeError(name, hours.String(), 0, "unbounded")
	}
	return nil
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.OrderID = kernel.CloneUUID(s.OrderID)
	s.DueDate = cloneTime(s.DueDate)
	s.AssignedAdmin = kernel.CloneUUID(s.AssignedAdmin)
	s.AssignedBy = kernel.CloneUUID(s.AssignedBy)
	s.EstimatedHours = cloneDecimal(s.EstimatedHours)
	s.ActualHours = cloneDecimal(s.ActualHours)
	s.CompletedAt = cloneTime(s.CompletedAt)
	return s
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
