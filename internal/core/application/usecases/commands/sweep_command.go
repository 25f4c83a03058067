package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepCommandIsNotConstructed = errors.New(
	"SweepCommand must be created via NewSweepCommand constructor",
)

// SweepCommand triggers one full reconciliation pass: assign waiting orders
// and self-heal stuck courier flags. Issued by the periodic scheduler and by
// the administrative endpoint.
type SweepCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepCommand creates a command for one reconciliation pass.
func NewSweepCommand() (SweepCommand, error) {
	return SweepCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *SweepCommand) Validate() error {
	return c.guard.Validate(
		ErrSweepCommandIsNotConstructed,
	)
}
