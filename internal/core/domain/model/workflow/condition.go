package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Field names an order attribute a condition can inspect.
type Field string

const (
	FieldStatus         Field = "status"
	FieldPreviousStatus Field = "previous_status"
	FieldPriority       Field = "priority"
	FieldOrderType      Field = "order_type"
	FieldAssignedAdmin  Field = "assigned_admin"
	FieldCustomPrice    Field = "custom_price"
	FieldBudget         Field = "budget"
	FieldPaymentStatus  Field = "payment_status"
	FieldCustomer       Field = "customer_id"
)

// Comparator is the relation a condition checks between a field and its value.
type Comparator string

const (
	Eq         Comparator = "eq"
	Neq        Comparator = "neq"
	In         Comparator = "in"
	NotIn      Comparator = "not_in"
	Gt         Comparator = "gt"
	Gte        Comparator = "gte"
	Lt         Comparator = "lt"
	Lte        Comparator = "lte"
	IsEmpty    Comparator = "is_empty"
	IsNotEmpty Comparator = "is_not_empty"
)

type fieldKind int

const (
	kindEnum fieldKind = iota + 1
	kindRanked
	kindMoney
	kindIdentifier
)

func getFieldKinds() map[Field]fieldKind {
	return map[Field]fieldKind{
		FieldStatus:         kindEnum,
		FieldPreviousStatus: kindEnum,
		FieldOrderType:      kindEnum,
		FieldPaymentStatus:  kindEnum,
		FieldPriority:       kindRanked,
		FieldCustomPrice:    kindMoney,
		FieldBudget:         kindMoney,
		FieldAssignedAdmin:  kindIdentifier,
		FieldCustomer:       kindIdentifier,
	}
}

// Condition is one field/comparator/value triple. A rule matches when all of
// its conditions hold. For In and NotIn the value is a comma separated list.
type Condition struct {
	Field      Field      `json:"field"`
	Comparator Comparator `json:"comparator"`
	Value      string     `json:"value,omitempty"`
}

// NewCondition validates the triple against the field's kind.
func NewCondition(field Field, comparator Comparator, value string) (Condition, error) {
	c := Condition{Field: field, Comparator: comparator, Value: strings.TrimSpace(value)}
	if err := c.Validate(); err != nil {
		return Condition{}, err
	}
	return c, nil
}

// Validate reports whether the condition can be evaluated. Comparators are
// restricted by field kind: ordering comparators only apply to priority and
// money fields.
func (c Condition) Validate() error {
	kind, ok := getFieldKinds()[c.Field]
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("condition field", fmt.Errorf("unknown field %q", string(c.Field)))
	}

	switch c.Comparator {
	case IsEmpty, IsNotEmpty:
		return nil
	case Eq, Neq:
		return validateOperand(c.Field, kind, c.Value)
	case In, NotIn:
		items := splitList(c.Value)
		if len(items) == 0 {
			return errs.NewValueIsRequiredError("condition value")
		}
		for _, item := range items {
			if err := validateOperand(c.Field, kind, item); err != nil {
				return err
			}
		}
		return nil
	case Gt, Gte, Lt, Lte:
		if kind != kindRanked && kind != kindMoney {
			return errs.NewValueIsInvalidErrorWithCause("condition comparator",
				fmt.Errorf("%s cannot be ordered with %s", c.Field, c.Comparator))
		}
		return validateOperand(c.Field, kind, c.Value)
	default:
		return errs.NewValueIsInvalidErrorWithCause("condition comparator",
			fmt.Errorf("unknown comparator %q", string(c.Comparator)))
	}
}

// Matches evaluates the condition. It never panics: an invalid condition or
// an unparsable fact evaluates to false.
func (c Condition) Matches(facts Facts) bool {
	if c.Validate() != nil {
		return false
	}
	actual, present := facts[c.Field]
	present = present && actual != ""

	switch c.Comparator {
	case IsEmpty:
		return !present
	case IsNotEmpty:
		return present
	case Eq:
		return present && equalOperands(c.Field, actual, c.Value)
	case Neq:
		return !present || !equalOperands(c.Field, actual, c.Value)
	case In:
		return present && containsOperand(c.Field, splitList(c.Value), actual)
	case NotIn:
		return !present || !containsOperand(c.Field, splitList(c.Value), actual)
	case Gt, Gte, Lt, Lte:
		if !present {
			return false
		}
		cmp, ok := compareOperands(c.Field, actual, c.Value)
		if !ok {
			return false
		}
		return orderingHolds(c.Comparator, cmp)
	default:
		return false
	}
}

// Conditions is a conjunction; the empty conjunction always holds.
type Conditions []Condition

func (cs Conditions) Validate() error {
	var joined []error
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			joined = append(joined, fmt.Errorf("condition #%d: %w", i, err))
		}
	}
	return errors.Join(joined...)
}

func (cs Conditions) Matches(facts Facts) bool {
	for _, c := range cs {
		if !c.Matches(facts) {
			return false
		}
	}
	return true
}

// EncodeConditions serializes conditions for storage.
func EncodeConditions(cs Conditions) ([]byte, error) {
	if cs == nil {
		cs = Conditions{}
	}
	return json.Marshal(cs)
}

// DecodeConditions parses stored conditions. Empty input is the empty conjunction.
func DecodeConditions(raw []byte) (Conditions, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Conditions{}, nil
	}
	var cs Conditions
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("conditions", err)
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

func validateOperand(field Field, kind fieldKind, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError("condition value")
	}
	var err error
	switch kind {
	case kindEnum:
		err = validateEnumOperand(field, value)
	case kindRanked:
		_, err = kernel.ParsePriority(value)
	case kindMoney:
		_, err = decimal.NewFromString(value)
	case kindIdentifier:
		_, err = kernel.UUIDFromString(value)
	}
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("condition value", err)
	}
	return nil
}

func validateEnumOperand(field Field, value string) error {
	var err error
	switch field {
	case FieldStatus, FieldPreviousStatus:
		_, err = order.ParseStatus(value)
	case FieldOrderType:
		_, err = order.ParseType(value)
	case FieldPaymentStatus:
		_, err = order.ParsePaymentStatus(value)
	default:
		err = fmt.Errorf("%s is not an enumerated field", field)
	}
	return err
}

func equalOperands(field Field, actual, expected string) bool {
	switch getFieldKinds()[field] {
	case kindMoney:
		cmp, ok := compareOperands(field, actual, expected)
		return ok && cmp == 0
	case kindIdentifier:
		a, errA := kernel.UUIDFromString(actual)
		b, errB := kernel.UUIDFromString(expected)
		return errA == nil && errB == nil && a.IsEqual(b)
	default:
		return strings.EqualFold(actual, expected)
	}
}

func containsOperand(field Field, list []string, actual string) bool {
	for _, item := range list {
		if equalOperands(field, actual, item) {
			return true
		}
	}
	return false
}

func compareOperands(field Field, actual, expected string) (int, bool) {
	switch getFieldKinds()[field] {
	case kindRanked:
		a, errA := kernel.ParsePriority(actual)
		b, errB := kernel.ParsePriority(expected)
		if errA != nil || errB != nil {
			return 0, false
		}
		switch {
		case a.Rank() < b.Rank():
			return -1, true
		case a.Rank() > b.Rank():
			return 1, true
		default:
			return 0, true
		}
	case kindMoney:
		a, errA := decimal.NewFromString(actual)
		b, errB := decimal.NewFromString(expected)
		if errA != nil || errB != nil {
			return 0, false
		}
		return a.Cmp(b), true
	default:
		return 0, false
	}
}

func orderingHolds(c Comparator, cmp int) bool {
	switch c {
	case Gt:
		return cmp > 0
	case Gte:
		return cmp >= 0
	case Lt:
		return cmp < 0
	case Lte:
		return cmp <= 0
	default:
		return false
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
