package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectAssignmentCommandIsNotConstructed = errors.New(
	"RejectAssignmentCommand must be created via NewRejectAssignmentCommand constructor",
)

// RejectAssignmentCommand records a courier declining a freshly assigned
// delivery. Only valid while the delivery is still Pending.
type RejectAssignmentCommand struct {
	deliveryID kernel.UUID
	reason     string
	guard      guard.ConstructorGuard
}

// NewRejectAssignmentCommand creates a command to reject the given delivery.
// The reason is free-form text recorded in the order history; it may be empty.
func NewRejectAssignmentCommand(deliveryID kernel.UUID, reason string) (RejectAssignmentCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return RejectAssignmentCommand{}, err
	}

	return RejectAssignmentCommand{
		deliveryID: deliveryID,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// DeliveryID returns the delivery being rejected.
func (c *RejectAssignmentCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Reason returns the courier's stated reason.
func (c *RejectAssignmentCommand) Reason() string {
	return c.reason
}

// Validate ensures the command was created through the constructor.
func (c *RejectAssignmentCommand) Validate() error {
	return c.guard.Validate(
		ErrRejectAssignmentCommandIsNotConstructed,
	)
}
