package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/guard"
)

var ErrUpdatePaymentStatusCommandIsNotConstructed = errors.New(
	"UpdatePaymentStatusCommand must be created via NewUpdatePaymentStatusCommand constructor",
)

// UpdatePaymentStatusCommand records settlement progress of an order.
type UpdatePaymentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actorID         kernel.UUID
	status          order.PaymentStatus
	expectedVersion *int

	guard guard.ConstructorGuard
}

func NewUpdatePaymentStatusCommand(
	orderID, actorID kernel.UUID,
	status string,
	expectedVersion *int,
) (UpdatePaymentStatusCommand, error) {
	cmd := UpdatePaymentStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		cmd.setStatus(status),
		validateExpectedVersion(expectedVersion),
	); err != nil {
		return UpdatePaymentStatusCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.expectedVersion = expectedVersion

	return cmd, nil
}

func (c UpdatePaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePaymentStatusCommandIsNotConstructed)
}

func (c UpdatePaymentStatusCommand) OrderID() kernel.UUID        { return c.orderID }
func (c UpdatePaymentStatusCommand) ActorID() kernel.UUID        { return c.actorID }
func (c UpdatePaymentStatusCommand) Status() order.PaymentStatus { return c.status }
func (c UpdatePaymentStatusCommand) ExpectedVersion() *int       { return c.expectedVersion }

func (c *UpdatePaymentStatusCommand) setStatus(s string) error {
	status, err := order.ParsePaymentStatus(s)
	if err != nil {
		return err
	}
	c.status = status
	return nil
}
