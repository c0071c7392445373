package order

import (
	"fmt"
	"strings"

	"bitversity/internal/pkg/errs"
)

// Type is the kind of bespoke work requested by the customer.
type Type int

const (
	TypeUnknown Type = iota
	TypeProject
	TypeGame
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown: "unknown",
		TypeProject: "project",
		TypeGame:    "game",
	}
}

func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project":
		return TypeProject, nil
	case "game":
		return TypeGame, nil
	default:
		return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("order type", fmt.Errorf("%q is not a valid order type", s))
	}
}

func (t Type) Validate() error {
	if t != TypeProject && t != TypeGame {
		return errs.NewValueIsInvalidErrorWithCause("order type", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}
