package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrToggleCourierOnlineCommandIsNotConstructed = errors.New(
	"ToggleCourierOnlineCommand must be created via NewToggleCourierOnlineCommand constructor",
)

// ToggleCourierOnlineCommand flips a courier's availability flag. Going
// online fires an event-triggered assignment attempt for the closest
// unassigned order; going offline is rejected while the courier carries a
// delivery that already progressed past Pending.
type ToggleCourierOnlineCommand struct {
	courierID kernel.UUID
	online    bool
	guard     guard.ConstructorGuard
}

// NewToggleCourierOnlineCommand creates a command to set the courier's availability.
func NewToggleCourierOnlineCommand(courierID kernel.UUID, online bool) (ToggleCourierOnlineCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ToggleCourierOnlineCommand{}, err
	}

	return ToggleCourierOnlineCommand{
		courierID: courierID,
		online:    online,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// CourierID returns the courier whose availability changes.
func (c *ToggleCourierOnlineCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Online returns the requested availability state.
func (c *ToggleCourierOnlineCommand) Online() bool {
	return c.online
}

// Validate ensures the command was created through the constructor.
func (c *ToggleCourierOnlineCommand) Validate() error {
	return c.guard.Validate(
		ErrToggleCourierOnlineCommandIsNotConstructed,
	)
}
