package kernel

import (
	"fmt"

	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount with four fractional digits, the precision
// the order tables store prices and budgets with.
//
// Example:
//
//	price, err := kernel.MoneyFromString("1500.00")
//	if err != nil {
//	    return err
//	}
//	if price.IsPositive() {
//	    // a quote has been issued
//	}
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

const moneyScale = 4

// NewMoney validates and rounds amount. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, "unbounded")
	}
	return Money{
		amount: amount.Round(moneyScale),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal string such as "249.99".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("parse %q: %w", s, err))
	}
	return NewMoney(amount)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Cmp compares two amounts the way decimal.Decimal.Cmp does.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// OptionalMoneyEqual compares two optional amounts. Two nil values are equal.
func OptionalMoneyEqual(a, b *Money) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}
