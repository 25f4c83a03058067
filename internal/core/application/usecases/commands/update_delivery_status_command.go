package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand drives the delivery lifecycle from the
// courier's app: Accepted, PickedUp, OnTheWay, Delivered and Cancelled.
type UpdateDeliveryStatusCommand struct {
	deliveryID kernel.UUID
	newStatus  delivery.Status
	guard      guard.ConstructorGuard
}

// NewUpdateDeliveryStatusCommand creates a command to move the delivery to newStatus.
func NewUpdateDeliveryStatusCommand(
	deliveryID kernel.UUID, newStatus delivery.Status,
) (UpdateDeliveryStatusCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}
	if err := newStatus.Validate(); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		deliveryID: deliveryID,
		newStatus:  newStatus,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// DeliveryID returns the delivery whose status changes.
func (c *UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// NewStatus returns the requested target status.
func (c *UpdateDeliveryStatusCommand) NewStatus() delivery.Status {
	return c.newStatus
}

// Validate ensures the command was created through the constructor.
func (c *UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(
		ErrUpdateDeliveryStatusCommandIsNotConstructed,
	)
}
