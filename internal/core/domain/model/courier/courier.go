// Package courier contains the Courier aggregate: a role-qualified account
// tracking availability, busy state and last reported location. Couriers are
// claimed and released exclusively through the assignment coordinator and the
// explicit rejection/cancellation paths.
package courier

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
	// ErrCourierIsBusy is returned when claiming a courier that already carries an order.
	ErrCourierIsBusy = errors.New("courier is busy")
	// ErrCourierIsOffline is returned when claiming a courier that is not online.
	ErrCourierIsOffline = errors.New("courier is offline")
)

// Courier represents a delivery courier in the system.
//
// Key invariants:
//   - busy is true if and only if the courier carries exactly one active
//     delivery; stuck flags are self-healed by the reconciliation sweep
//   - currentOrderID is set if and only if busy is true
//   - location is nil until the courier's device first reports one
//
// Availability is toggled by the courier; busy state is mutated only by the
// assignment coordinator and the rejection/cancellation/completion paths.
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// active reports whether the courier is online and accepting work
	active bool
	// busy reports whether the courier currently carries an order
	busy bool
	// location is the last reported position (nil when never reported)
	location *kernel.GeoPoint
	// currentOrderID is the order being carried (nil when free)
	currentOrderID *kernel.UUID
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier that is offline, free and without a
// reported location. This is the entry point used by the accounts subsystem.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// preserving its availability, busy state, location and current order.
func RestoreCourier(
	id kernel.UUID,
	name string,
	active bool,
	busy bool,
	location *kernel.GeoPoint,
	currentOrderID *kernel.UUID,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
		c.setCurrentOrderID(busy, currentOrderID),
	); err != nil {
		return nil, err
	}

	c.active = active
	c.busy = busy
	return c, nil
}

// Validate checks if the Courier was properly constructed via a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's name.
func (c *Courier) Name() string {
	return c.name
}

// IsActive reports whether the courier is online.
func (c *Courier) IsActive() bool {
	return c.active
}

// IsBusy reports whether the courier currently carries an order.
func (c *Courier) IsBusy() bool {
	return c.busy
}

// IsAvailable reports whether the courier can take a new order.
func (c *Courier) IsAvailable() bool {
	return c.active && !c.busy
}

// Location returns the courier's last reported position, or nil when the
// device has never reported one.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// CurrentOrder returns the ID of the order being carried, or nil when free.
func (c *Courier) CurrentOrder() *kernel.UUID {
	return c.currentOrderID
}

// GoOnline marks the courier as accepting work.
func (c *Courier) GoOnline() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.active = true
	return nil
}

// GoOffline marks the courier as unavailable.
// Callers must first verify the courier has no active delivery beyond
// Pending; the aggregate cannot see delivery records.
func (c *Courier) GoOffline() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.active = false
	return nil
}

// Claim binds the courier to an order: busy becomes true and currentOrderID
// is set. Fails if the courier is offline or already busy.
func (c *Courier) Claim(orderID kernel.UUID) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	if !c.active {
		return ErrCourierIsOffline
	}
	if c.busy {
		return ErrCourierIsBusy
	}

	c.busy = true
	c.currentOrderID = &orderID
	return nil
}

// Release frees the courier: busy becomes false and currentOrderID is
// cleared. Safe to call on an already-free courier, which the sweep's
// self-heal relies on.
func (c *Courier) Release() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.busy = false
	c.currentOrderID = nil
	return nil
}

// MoveTo records a location report from the courier's device.
func (c *Courier) MoveTo(location kernel.GeoPoint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	loc := location
	c.location = &loc
	return nil
}

// setID sets the courier's unique identifier with validation.
// This is a private setter used during construction.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setName sets the courier's name with validation.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

// setLocation sets the optional location during restoration.
func (c *Courier) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	loc := *location
	c.location = &loc
	return nil
}

// setCurrentOrderID sets the optional current order reference during
// restoration, enforcing the busy/currentOrder invariant.
func (c *Courier) setCurrentOrderID(busy bool, orderID *kernel.UUID) error {
	if orderID == nil {
		if busy {
			return errs.NewValueIsRequiredError("currentOrderID")
		}
		return nil
	}

	if err := orderID.Validate(); err != nil {
		return err
	}
	if !busy {
		return errs.NewValueIsInvalidError("currentOrderID")
	}

	id := *orderID
	c.currentOrderID = &id
	return nil
}
