package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand hands an order to an administrator.
type AssignOrderCommand struct {
	orderID         kernel.UUID
	adminID         kernel.UUID
	actorID         kernel.UUID
	expectedVersion *int

	guard guard.ConstructorGuard
}

func NewAssignOrderCommand(orderID, adminID, actorID kernel.UUID, expectedVersion *int) (AssignOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		adminID.Validate(),
		actorID.Validate(),
		validateExpectedVersion(expectedVersion),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return AssignOrderCommand{
		orderID:         orderID,
		adminID:         adminID,
		actorID:         actorID,
		expectedVersion: expectedVersion,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

func (c AssignOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c AssignOrderCommand) AdminID() kernel.UUID  { return c.adminID }
func (c AssignOrderCommand) ActorID() kernel.UUID  { return c.actorID }
func (c AssignOrderCommand) ExpectedVersion() *int { return c.expectedVersion }
