package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's request for bespoke work.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, "game", "Co-op puzzle game", "", nil, "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	snapshot, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	orderType  order.Type
	title      string
	details    string
	budget     *kernel.Money
	priority   kernel.Priority

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the identifiers and parses the order type
// and priority. An empty priority means medium.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	orderType, title, description string,
	budget *kernel.Money,
	priority string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		title:   title,
		details: description,
		budget:  budget,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setOrderType(orderType),
		cmd.setPriority(priority),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Details() order.Details {
	return order.Details{
		CustomerID:  c.customerID,
		Type:        c.orderType,
		Title:       c.title,
		Description: c.details,
		Budget:      c.budget,
		Priority:    c.priority,
	}
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setOrderType(s string) error {
	t, err := order.ParseType(s)
	if err != nil {
		return err
	}
	c.orderType = t
	return nil
}

func (c *CreateOrderCommand) setPriority(s string) error {
	if s == "" {
		c.priority = kernel.PriorityMedium
		return nil
	}
	p, err := kernel.ParsePriority(s)
	if err != nil {
		return err
	}
	c.priority = p
	return nil
}
