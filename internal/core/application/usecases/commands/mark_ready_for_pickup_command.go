package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkReadyForPickupCommandIsNotConstructed = errors.New(
	"MarkReadyForPickupCommand must be created via NewMarkReadyForPickupCommand constructor",
)

// MarkReadyForPickupCommand records that the seller finished preparing an
// order, making it eligible for courier assignment.
type MarkReadyForPickupCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewMarkReadyForPickupCommand creates a command for the given order.
func NewMarkReadyForPickupCommand(orderID kernel.UUID) (MarkReadyForPickupCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkReadyForPickupCommand{}, err
	}

	return MarkReadyForPickupCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to mark ready.
func (c *MarkReadyForPickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Validate ensures the command was created through the constructor.
func (c *MarkReadyForPickupCommand) Validate() error {
	return c.guard.Validate(
		ErrMarkReadyForPickupCommandIsNotConstructed,
	)
}
