package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand triggers one assignment attempt for one specific order.
// Both the periodic sweep and the event-triggered paths (mark ready, courier
// online, rejection) funnel through this command, so there is exactly one
// code path that can bind an order to a courier.
type AssignOrderCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewAssignOrderCommand creates a command to attempt assignment of the given order.
func NewAssignOrderCommand(orderID kernel.UUID) (AssignOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignOrderCommand{}, err
	}

	return AssignOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to attempt assignment for.
func (c *AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Validate ensures the command was created through the constructor.
func (c *AssignOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrAssignOrderCommandIsNotConstructed,
	)
}
