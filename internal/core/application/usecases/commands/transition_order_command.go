package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand moves one order along the lifecycle. When
// expectedVersion is set the move fails with a concurrent modification error
// unless the stored order is still at that version.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actorID         kernel.UUID
	target          order.Status
	reason          string
	notes           string
	expectedVersion *int

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID, actorID kernel.UUID,
	target, reason, notes string,
	expectedVersion *int,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		reason: reason,
		notes:  notes,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		cmd.setTarget(target),
		validateExpectedVersion(expectedVersion),
	); err != nil {
		return TransitionOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.expectedVersion = expectedVersion

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c TransitionOrderCommand) ActorID() kernel.UUID  { return c.actorID }
func (c TransitionOrderCommand) Target() order.Status  { return c.target }
func (c TransitionOrderCommand) Reason() string        { return c.reason }
func (c TransitionOrderCommand) Notes() string         { return c.notes }
func (c TransitionOrderCommand) ExpectedVersion() *int { return c.expectedVersion }

func (c *TransitionOrderCommand) setTarget(s string) error {
	status, err := order.ParseStatus(s)
	if err != nil {
		return err
	}
	c.target = status
	return nil
}
