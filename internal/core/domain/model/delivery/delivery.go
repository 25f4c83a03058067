// Package delivery contains the Delivery aggregate: the operational record of
// one courier's handling of one order. Deliveries are created by the
// assignment coordinator and fully owned by the dispatch core.
package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for delivery operations.
var (
	// ErrDeliveryIsNotConstructed is returned when using an improperly initialized Delivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")
	// ErrPickupAddressIsRequired is returned when attempting to create a delivery without a pickup address.
	ErrPickupAddressIsRequired = errs.NewValueIsRequiredError("pickup address")
	// ErrDropoffAddressIsRequired is returned when attempting to create a delivery without a dropoff address.
	ErrDropoffAddressIsRequired = errs.NewValueIsRequiredError("dropoff address")
	// ErrRatingIsOnlyForDelivered is returned when rating a delivery that has not completed.
	ErrRatingIsOnlyForDelivered = errors.New("only a delivered delivery can be rated")
)

const (
	ratingMin = 1
	ratingMax = 5
)

// Delivery is the operational record of one courier's handling of one order.
// At most one active Delivery exists per order; a cancelled or rejected
// record does not block creating a new one once the order is reassigned.
type Delivery struct {
	// id uniquely identifies the delivery record
	id kernel.UUID
	// orderID references the order being delivered
	orderID kernel.UUID
	// courierID references the courier handling the order
	courierID kernel.UUID
	// status is the current state in the delivery lifecycle
	status Status
	// pickupAddress is the store address shown to the courier
	pickupAddress string
	// dropoffAddress is the customer address shown to the courier
	dropoffAddress string
	// fee is the delivery fee in minor currency units, copied from the order
	fee int64
	// estimatedAt is the promised delivery time (nil when not estimated)
	estimatedAt *time.Time
	// deliveredAt is the actual delivery time (nil until delivered)
	deliveredAt *time.Time
	// rating is the customer's 1..5 rating (nil until rated)
	rating *int
	// review is the customer's free-form review text
	review string
	// guard ensures the delivery was properly constructed
	guard guard.ConstructorGuard
}

// NewDelivery creates a new Delivery in Pending status.
// Called by the assignment coordinator when an assignment commits; the fee
// and addresses are copied from the order and store at that moment.
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	courierID kernel.UUID,
	pickupAddress string,
	dropoffAddress string,
	fee int64,
	estimatedAt *time.Time,
) (*Delivery, error) {
	d := &Delivery{
		status: StatusPending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setCourierID(courierID),
		d.setPickupAddress(pickupAddress),
		d.setDropoffAddress(dropoffAddress),
	); err != nil {
		return nil, err
	}

	d.fee = fee
	d.estimatedAt = copyTime(estimatedAt)
	return d, nil
}

// RestoreDelivery reconstructs a Delivery aggregate from persistent storage.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	courierID kernel.UUID,
	status Status,
	pickupAddress string,
	dropoffAddress string,
	fee int64,
	estimatedAt *time.Time,
	deliveredAt *time.Time,
	rating *int,
	review string,
) (*Delivery, error) {
	d := &Delivery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setCourierID(courierID),
		d.setStatus(status),
		d.setPickupAddress(pickupAddress),
		d.setDropoffAddress(dropoffAddress),
	); err != nil {
		return nil, err
	}

	d.fee = fee
	d.estimatedAt = copyTime(estimatedAt)
	d.deliveredAt = copyTime(deliveredAt)
	if rating != nil {
		r := *rating
		d.rating = &r
	}
	d.review = review
	return d, nil
}

// Validate checks if the Delivery was properly constructed via a constructor.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the order this delivery fulfils.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// CourierID returns the courier handling this delivery.
func (d *Delivery) CourierID() kernel.UUID {
	return d.courierID
}

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status {
	return d.status
}

// PickupAddress returns the store address.
func (d *Delivery) PickupAddress() string {
	return d.pickupAddress
}

// DropoffAddress returns the customer address.
func (d *Delivery) DropoffAddress() string {
	return d.dropoffAddress
}

// Fee returns the delivery fee in minor currency units.
func (d *Delivery) Fee() int64 {
	return d.fee
}

// EstimatedAt returns the promised delivery time, or nil.
func (d *Delivery) EstimatedAt() *time.Time {
	return copyTime(d.estimatedAt)
}

// DeliveredAt returns the actual delivery time, or nil until delivered.
func (d *Delivery) DeliveredAt() *time.Time {
	return copyTime(d.deliveredAt)
}

// Rating returns the customer's rating, or nil until rated.
func (d *Delivery) Rating() *int {
	if d.rating == nil {
		return nil
	}
	r := *d.rating
	return &r
}

// Review returns the customer's review text.
func (d *Delivery) Review() string {
	return d.review
}

// IsActive reports whether this delivery currently occupies its courier.
func (d *Delivery) IsActive() bool {
	return d.status.IsActive()
}

// Accept records the courier accepting the assignment.
func (d *Delivery) Accept() error {
	return d.transitionTo(StatusAccepted)
}

// MarkPickedUp records the courier collecting the order.
// The caller mirrors the order to PickedUp.
func (d *Delivery) MarkPickedUp() error {
	return d.transitionTo(StatusPickedUp)
}

// MarkOnTheWay records the courier en route to the customer.
// The caller mirrors the order to OnTheWay.
func (d *Delivery) MarkOnTheWay() error {
	return d.transitionTo(StatusOnTheWay)
}

// Complete records the handover to the customer and stamps the actual
// delivery time. The caller owns the settlement gate and the order/courier
// coupling; the aggregate only enforces its own lifecycle.
func (d *Delivery) Complete(at time.Time) error {
	if err := d.transitionTo(StatusDelivered); err != nil {
		return err
	}

	t := at.UTC()
	d.deliveredAt = &t
	return nil
}

// Cancel abandons the delivery. Cancelling while still Pending is a
// rejection; the caller owns reopening the order and freeing the courier.
func (d *Delivery) Cancel() error {
	return d.transitionTo(StatusCancelled)
}

// Rate records the customer's rating and optional review.
// Only a delivered delivery can be rated.
func (d *Delivery) Rate(rating int, review string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if d.status != StatusDelivered {
		return ErrRatingIsOnlyForDelivered
	}
	if rating < ratingMin || rating > ratingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, ratingMin, ratingMax)
	}

	r := rating
	d.rating = &r
	d.review = review
	return nil
}

// transitionTo validates the lifecycle transition and applies it.
func (d *Delivery) transitionTo(next Status) error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.TransitionTo(next)
	if err != nil {
		return err
	}

	d.status = newStatus
	return nil
}

// setID sets the delivery's unique identifier with validation.
// This is a private setter used during construction.
func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setOrderID sets the order reference with validation.
func (d *Delivery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	d.orderID = orderID
	return nil
}

// setCourierID sets the courier reference with validation.
func (d *Delivery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	d.courierID = courierID
	return nil
}

// setStatus sets the lifecycle status during restoration.
func (d *Delivery) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

// setPickupAddress sets the store address with validation.
func (d *Delivery) setPickupAddress(address string) error {
	if address == "" {
		return ErrPickupAddressIsRequired
	}
	d.pickupAddress = address
	return nil
}

// setDropoffAddress sets the customer address with validation.
func (d *Delivery) setDropoffAddress(address string) error {
	if address == "" {
		return ErrDropoffAddressIsRequired
	}
	d.dropoffAddress = address
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
