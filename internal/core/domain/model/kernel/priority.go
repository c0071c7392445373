package kernel

import (
	"fmt"
	"strings"

	"bitversity/internal/pkg/errs"
)

// Priority is shared by orders and tasks. The declared order is the
// urgency order: Low < Medium < High < Urgent.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityRanks = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

// ParsePriority accepts the lower-case names, ignoring surrounding spaces and case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Priority) Validate() error {
	if _, ok := priorityRanks[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("unknown priority %q", string(p)))
	}
	return nil
}

// Rank returns 1..4 for valid priorities and 0 otherwise.
func (p Priority) Rank() int {
	return priorityRanks[p]
}

func (p Priority) String() string {
	return string(p)
}

// AllPriorities lists priorities from least to most urgent.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}
