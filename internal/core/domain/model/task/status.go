package task

import (
	"fmt"
	"strings"

	"bitversity/internal/pkg/errs"
)

// Status is the progress of a task. Completed and Cancelled are terminal;
// Pending and InProgress may move back and forth.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
		StatusInProgress: {StatusPending, StatusCompleted, StatusCancelled},
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("task status", fmt.Errorf("%q is not a valid task status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, candidate := range getAllowedTransitions()[s] {
		if candidate == to {
			return true
		}
	}
	return false
}
