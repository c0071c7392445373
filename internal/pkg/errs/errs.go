package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrIllegalTransition      = errors.New("illegal transition")
	ErrInvalidState           = errors.New("invalid state")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrActionExecution        = errors.New("action execution failed")
)

// ObjectNotFoundError reports a lookup by identifier that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// IllegalTransitionError is returned when an entity is asked to move along an
// edge its lifecycle graph does not contain.
type IllegalTransitionError struct {
	Entity string
	From   any
	To     any
}

func NewIllegalTransitionError(entity string, from, to any) *IllegalTransitionError {
	return &IllegalTransitionError{
		Entity: entity,
		From:   from,
		To:     to,
	}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %v to %v", ErrIllegalTransition, e.Entity, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// InvalidStateError is returned when an operation is not permitted in the
// entity's current state.
type InvalidStateError struct {
	Operation string
	State     any
}

func NewInvalidStateError(operation string, state any) *InvalidStateError {
	return &InvalidStateError{
		Operation: operation,
		State:     state,
	}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while state is %v", ErrInvalidState, e.Operation, e.State)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// ConcurrentModificationError signals that a stored entity changed between
// the caller's read and its write.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
	Expected  int
	Actual    int
}

func NewConcurrentModificationError(paramName string, id any, expected, actual int) *ConcurrentModificationError {
	return &ConcurrentModificationError{
		ParamName: paramName,
		ID:        id,
		Expected:  expected,
		Actual:    actual,
	}
}

func (e *ConcurrentModificationError) Error() string {
	if e.Actual < 0 {
		return fmt.Sprintf("%s: %s %v changed since version %d",
			ErrConcurrentModification, e.ParamName, e.ID, e.Expected)
	}
	return fmt.Sprintf("%s: %s %v expected version %d, actual version %d",
		ErrConcurrentModification, e.ParamName, e.ID, e.Expected, e.Actual)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// ActionExecutionError describes a single failed workflow action. Fatal
// failures stop the remaining actions of the rule.
type ActionExecutionError struct {
	RuleID      string
	ActionIndex int
	ActionKind  string
	Fatal       bool
	Cause       error
}

func NewActionExecutionError(ruleID string, index int, kind string, fatal bool, cause error) *ActionExecutionError {
	return &ActionExecutionError{
		RuleID:      ruleID,
		ActionIndex: index,
		ActionKind:  kind,
		Fatal:       fatal,
		Cause:       cause,
	}
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("%s: rule %s action #%d (%s): %v",
		ErrActionExecution, e.RuleID, e.ActionIndex, e.ActionKind, e.Cause)
}

func (e *ActionExecutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrActionExecution}
	}
	return []error{ErrActionExecution, e.Cause}
}

// IsValidation reports whether err belongs to the input validation family.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

func sanitize(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return strings.ReplaceAll(s, "\n", " ")
}
