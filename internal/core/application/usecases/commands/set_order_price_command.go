package commands

import (
	"errors"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/guard"
)

var ErrSetOrderPriceCommandIsNotConstructed = errors.New(
	"SetOrderPriceCommand must be created via NewSetOrderPriceCommand constructor",
)

// SetOrderPriceCommand issues or revises the quote of an approved order.
type SetOrderPriceCommand struct {
	orderID         kernel.UUID
	actorID         kernel.UUID
	price           kernel.Money
	estimatedDate   *time.Time
	expectedVersion *int

	guard guard.ConstructorGuard
}

func NewSetOrderPriceCommand(
	orderID, actorID kernel.UUID,
	price kernel.Money,
	estimatedDate *time.Time,
	expectedVersion *int,
) (SetOrderPriceCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		price.Validate(),
		validateExpectedVersion(expectedVersion),
	); err != nil {
		return SetOrderPriceCommand{}, err
	}

	return SetOrderPriceCommand{
		orderID:         orderID,
		actorID:         actorID,
		price:           price,
		estimatedDate:   estimatedDate,
		expectedVersion: expectedVersion,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c SetOrderPriceCommand) Validate() error {
	return c.guard.Validate(ErrSetOrderPriceCommandIsNotConstructed)
}

func (c SetOrderPriceCommand) OrderID() kernel.UUID      { return c.orderID }
func (c SetOrderPriceCommand) ActorID() kernel.UUID      { return c.actorID }
func (c SetOrderPriceCommand) Price() kernel.Money       { return c.price }
func (c SetOrderPriceCommand) EstimatedDate() *time.Time { return c.estimatedDate }
func (c SetOrderPriceCommand) ExpectedVersion() *int     { return c.expectedVersion }
