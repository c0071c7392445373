package order

import (
	"fmt"
	"strings"

	"bitversity/internal/pkg/errs"
)

// PaymentStatus tracks settlement of the quote independently of the
// lifecycle status. Only Pending -> Paid and Paid -> Refunded are allowed.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentAwaited
	PaymentPaid
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "unknown",
		PaymentAwaited:  "pending",
		PaymentPaid:     "paid",
		PaymentRefunded: "refunded",
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getPaymentStatusStrings() {
		if status != PaymentUnknown && str == name {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status", fmt.Errorf("%q is not a valid payment status", s))
}

func (p PaymentStatus) Validate() error {
	if p <= PaymentUnknown || p > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

func (p PaymentStatus) canTransitionTo(to PaymentStatus) bool {
	return (p == PaymentAwaited && to == PaymentPaid) || (p == PaymentPaid && to == PaymentRefunded)
}
