package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"
)

var ErrRuleIsNotConstructed = errors.New("Rule must be created via NewRule or RestoreRule")

const (
	maxNameLength = 120
	maxActions    = 20
)

// Definition is the administrator-editable part of a rule.
type Definition struct {
	Name        string
	Description string
	Trigger     order.EventType
	Conditions  Conditions
	Actions     []Action
	IsActive    bool
}

// RuleSnapshot is the persisted state of a rule. ConditionsErr carries a
// decoding failure of the stored conditions; such a rule never matches.
type RuleSnapshot struct {
	ID             kernel.UUID
	Name           string
	Description    string
	IsActive       bool
	Trigger        order.EventType
	Conditions     Conditions
	ConditionsErr  error
	Actions        []Action
	ExecutionCount int
	LastExecutedAt *time.Time
	CreatedBy      *kernel.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Rule is an administrator-defined reaction to a lifecycle event: when
// Trigger fires and every condition holds, Actions run in declared order.
//
// Rules built through NewRule or Update are fully valid. Rules restored from
// storage are tolerated even when their stored conditions or actions are
// malformed: such conditions fail closed and malformed actions fail at
// execution time.
type Rule struct {
	id             kernel.UUID
	name           string
	description    string
	isActive       bool
	trigger        order.EventType
	conditions     Conditions
	conditionsErr  error
	actions        []Action
	executionCount int
	lastExecutedAt *time.Time
	createdBy      *kernel.UUID
	createdAt      time.Time
	updatedAt      time.Time

	isConstructed bool
}

// NewRule validates def and creates a rule.
//
// Example:
//
//	rule, err := workflow.NewRule(kernel.NewUUID(), workflow.Definition{
//	    Name:       "Notify lead on approval",
//	    Trigger:    order.EventStatusChanged,
//	    Conditions: workflow.Conditions{{Field: workflow.FieldStatus, Comparator: workflow.Eq, Value: "approved"}},
//	    Actions:    []workflow.Action{workflow.NotifyAction{RecipientID: leadID, Template: "Order {{.title}} approved"}},
//	    IsActive:   true,
//	}, &adminID, time.Now().UTC())
func NewRule(id kernel.UUID, def Definition, createdBy *kernel.UUID, now time.Time) (*Rule, error) {
	r := &Rule{
		createdBy:     kernel.CloneUUID(createdBy),
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	if err := errors.Join(id.Validate(), validateDefinition(def)); err != nil {
		return nil, err
	}
	r.id = id
	r.apply(def)
	return r, nil
}

// RestoreRule rebuilds a rule from storage without validating its
// conditions and actions.
func RestoreRule(s RuleSnapshot) (*Rule, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}
	return &Rule{
		id:             s.ID,
		name:           s.Name,
		description:    s.Description,
		isActive:       s.IsActive,
		trigger:        s.Trigger,
		conditions:     append(Conditions(nil), s.Conditions...),
		conditionsErr:  s.ConditionsErr,
		actions:        append([]Action(nil), s.Actions...),
		executionCount: s.ExecutionCount,
		lastExecutedAt: cloneTime(s.LastExecutedAt),
		createdBy:      kernel.CloneUUID(s.CreatedBy),
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
		isConstructed:  true,
	}, nil
}

func (r *Rule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRuleIsNotConstructed
	}
	return nil
}

func (r *Rule) ID() kernel.UUID            { return r.id }
func (r *Rule) Name() string               { return r.name }
func (r *Rule) IsActive() bool             { return r.isActive }
func (r *Rule) Trigger() order.EventType   { return r.trigger }
func (r *Rule) ExecutionCount() int        { return r.executionCount }
func (r *Rule) LastExecutedAt() *time.Time { return cloneTime(r.lastExecutedAt) }

// Actions returns the actions in execution order.
func (r *Rule) Actions() []Action {
	return append([]Action(nil), r.actions...)
}

// Update replaces the editable definition. Counters are kept.
func (r *Rule) Update(def Definition, now time.Time) error {
	if err := validateDefinition(def); err != nil {
		return err
	}
	r.apply(def)
	r.updatedAt = now
	return nil
}

// SetActive enables or disables the rule.
func (r *Rule) SetActive(active bool, now time.Time) {
	if r.isActive == active {
		return
	}
	r.isActive = active
	r.updatedAt = now
}

// RecordExecution counts one completed run of the rule.
func (r *Rule) RecordExecution(at time.Time) {
	r.executionCount++
	r.lastExecutedAt = &at
}

// Matches reports whether the rule should run for event. Inactive rules,
// other triggers and rules with undecodable conditions never match.
func (r *Rule) Matches(event order.Event, facts Facts) bool {
	if !r.isActive || r.trigger != event.Type || r.conditionsErr != nil {
		return false
	}
	return r.conditions.Matches(facts)
}

func (r *Rule) Snapshot() RuleSnapshot {
	return RuleSnapshot{
		ID:             r.id,
		Name:           r.name,
		Description:    r.description,
		IsActive:       r.isActive,
		Trigger:        r.trigger,
		Conditions:     append(Conditions(nil), r.conditions...),
		ConditionsErr:  r.conditionsErr,
		Actions:        r.Actions(),
		ExecutionCount: r.executionCount,
		LastExecutedAt: cloneTime(r.lastExecutedAt),
		CreatedBy:      kernel.CloneUUID(r.createdBy),
		CreatedAt:      r.createdAt,
		UpdatedAt:      r.updatedAt,
	}
}

func (r *Rule) apply(def Definition) {
	r.name = strings.TrimSpace(def.Name)
	r.description = strings.TrimSpace(def.Description)
	r.trigger = def.Trigger
	r.conditions = append(Conditions(nil), def.Conditions...)
	r.conditionsErr = nil
	r.actions = append([]Action(nil), def.Actions...)
	r.isActive = def.IsActive
}

func validateDefinition(def Definition) error {
	var joined []error

	switch name := strings.TrimSpace(def.Name); {
	case name == "":
		joined = append(joined, errs.NewValueIsRequiredError("rule name"))
	case len(name) > maxNameLength:
		joined = append(joined, errs.NewValueIsOutOfRangeError("rule name length", len(name), 1, maxNameLength))
	}
	if err := def.Trigger.Validate(); err != nil {
		joined = append(joined, err)
	}
	if err := def.Conditions.Validate(); err != nil {
		joined = append(joined, err)
	}
	switch {
	case len(def.Actions) == 0:
		joined = append(joined, errs.NewValueIsRequiredError("rule actions"))
	case len(def.Actions) > maxActions:
		joined = append(joined, errs.NewValueIsOutOfRangeError("rule actions", len(def.Actions), 1, maxActions))
	}
	for i, a := range def.Actions {
		if a == nil {
			joined = append(joined, errs.NewValueIsRequiredError(fmt.Sprintf("action #%d", i)))
			continue
		}
		if err := a.Validate(); err != nil {
			joined = append(joined, fmt.Errorf("action #%d: %w", i, err))
		}
	}

	return errors.Join(joined...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
