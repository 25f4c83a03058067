package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order from any non-terminal status. Used by
// the merchant surface; a stuck ReadyForPickup order must always remain
// cancellable regardless of assignment attempts.
type CancelOrderCommand struct {
	orderID kernel.UUID
	reason  string
	guard   guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel the given order.
// The reason is free-form text recorded in the order history; it may be empty.
func NewCancelOrderCommand(orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to cancel.
func (c *CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the stated cancellation reason.
func (c *CancelOrderCommand) Reason() string {
	return c.reason
}

// Validate ensures the command was created through the constructor.
func (c *CancelOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrCancelOrderCommandIsNotConstructed,
	)
}
