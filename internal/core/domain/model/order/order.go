package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when using an Order that was not
	// created via NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrNumberIsRequired is returned when attempting to create an order without an order number.
	ErrNumberIsRequired = errs.NewValueIsRequiredError("number")
	// ErrPickupAddressIsRequired is returned when attempting to create an order without a store address.
	ErrPickupAddressIsRequired = errs.NewValueIsRequiredError("pickup address")
	// ErrDropoffAddressIsRequired is returned when attempting to create an order without a customer address.
	ErrDropoffAddressIsRequired = errs.NewValueIsRequiredError("dropoff address")
	// ErrOrderIsTerminal is returned when attempting to cancel an order that already finished.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")
)

// Order represents a purchase from one seller by one customer.
// It is the aggregate root for the order lifecycle from checkout through
// courier assignment to delivery.
//
// Key invariants:
//   - Status transitions follow the lifecycle table in Status
//   - A courier reference is present if and only if the status requires one
//     (Assigned, PickedUp, OnTheWay, Delivered); cancellation clears it
//   - The status history is append-only
//   - readySince is stamped when the order becomes ReadyForPickup and drives
//     the proximity matcher's radius widening
//
// Example usage:
//
//	pickup, _ := kernel.NewGeoPoint(12.90, 77.58)
//	dropoff, _ := kernel.NewGeoPoint(12.95, 77.61)
//	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1042", customerID,
//	    order.CashOnDelivery, 4990, "12 MG Road", "4 Lake View", &pickup, &dropoff, items)
//	if err != nil {
//	    // handle construction error
//	}
type Order struct {
	// id uniquely identifies the order
	id kernel.UUID
	// number is the customer-facing order number
	number string
	// customerID references the customer who placed the order
	customerID kernel.UUID
	// pickupAddress is the store's street address
	pickupAddress string
	// dropoffAddress is the customer's street address
	dropoffAddress string
	// status is the current state in the order lifecycle
	status Status
	// paymentMethod is how the customer pays
	paymentMethod PaymentMethod
	// paymentStatus is the settlement state of the payment
	paymentStatus PaymentStatus
	// pickup is the store's coordinates (nil when the store has no geo data)
	pickup *kernel.GeoPoint
	// dropoff is the customer's coordinates (nil when unknown)
	dropoff *kernel.GeoPoint
	// courierID is the assigned courier (nil when unassigned)
	courierID *kernel.UUID
	// fee is the delivery fee in minor currency units
	fee int64
	// reservedItems are the stock reservation IDs released on cancellation
	reservedItems []string
	// readySince is when the order entered ReadyForPickup (nil before that)
	readySince *time.Time
	// history is the append-only status history
	history []HistoryEntry
	// guard ensures the order was properly constructed
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status.
// This is the entry point used by the checkout subsystem; the dispatch core
// reconstructs persisted orders through RestoreOrder instead.
//
// Pickup and dropoff coordinates are optional (stores and customers without
// geo data pass nil); when present they must be valid GeoPoints.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	paymentMethod PaymentMethod,
	fee int64,
	pickupAddress string,
	dropoffAddress string,
	pickup *kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	reservedItems []string,
) (*Order, error) {
	o := &Order{
		status:        StatusPending,
		paymentStatus: PaymentPending,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setPaymentMethod(paymentMethod),
		o.setPickupAddress(pickupAddress),
		o.setDropoffAddress(dropoffAddress),
		o.setPickup(pickup),
		o.setDropoff(dropoff),
	); err != nil {
		return nil, err
	}

	o.fee = fee
	o.reservedItems = append([]string(nil), reservedItems...)
	o.appendHistory(StatusPending, "customer", "order placed")
	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, it restores the order to its previously persisted state,
// including status, courier assignment and history. The restored order
// behaves identically to one created through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	status Status,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	fee int64,
	pickupAddress string,
	dropoffAddress string,
	pickup *kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	courierID *kernel.UUID,
	reservedItems []string,
	readySince *time.Time,
	history []HistoryEntry,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setStatus(status),
		o.setPaymentMethod(paymentMethod),
		o.setPaymentStatus(paymentStatus),
		o.setPickupAddress(pickupAddress),
		o.setDropoffAddress(dropoffAddress),
		o.setPickup(pickup),
		o.setDropoff(dropoff),
		o.setCourierID(courierID),
	); err != nil {
		return nil, err
	}

	o.fee = fee
	o.reservedItems = append([]string(nil), reservedItems...)
	o.readySince = readySince
	o.history = append([]HistoryEntry(nil), history...)
	return o, nil
}

// Validate checks if the Order was properly constructed via a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the customer-facing order number.
func (o *Order) Number() string {
	return o.number
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// PickupAddress returns the store's street address.
func (o *Order) PickupAddress() string {
	return o.pickupAddress
}

// DropoffAddress returns the customer's street address.
func (o *Order) DropoffAddress() string {
	return o.dropoffAddress
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentMethod returns how the customer pays for this order.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the settlement state of the payment.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Pickup returns the store's coordinates, or nil when unknown.
func (o *Order) Pickup() *kernel.GeoPoint {
	return o.pickup
}

// Dropoff returns the customer's coordinates, or nil when unknown.
func (o *Order) Dropoff() *kernel.GeoPoint {
	return o.dropoff
}

// Courier returns the assigned courier's ID, or nil when unassigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// Fee returns the delivery fee in minor currency units.
func (o *Order) Fee() int64 {
	return o.fee
}

// ReservedItems returns the stock reservation IDs held for this order.
// The returned slice is a copy to prevent external modification.
func (o *Order) ReservedItems() []string {
	out := make([]string, len(o.reservedItems))
	copy(out, o.reservedItems)
	return out
}

// ReadySince returns when the order entered ReadyForPickup, or nil if it has not.
func (o *Order) ReadySince() *time.Time {
	return o.readySince
}

// History returns the append-only status history.
// The returned slice is a copy to prevent external modification.
func (o *Order) History() []HistoryEntry {
	out := make([]HistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// WaitedFor returns how long the order has been waiting for assignment as of now.
// Returns zero before the order becomes ReadyForPickup.
func (o *Order) WaitedFor(now time.Time) time.Duration {
	if o.readySince == nil {
		return 0
	}
	return now.Sub(*o.readySince)
}

// Accept records the seller accepting the order.
func (o *Order) Accept(actor string) error {
	return o.transitionTo(StatusAccepted, actor, "")
}

// Reject records the seller declining the order. Terminal.
// Reserved stock must be released by the caller afterwards.
func (o *Order) Reject(actor, note string) error {
	return o.transitionTo(StatusRejected, actor, note)
}

// StartProcessing records the seller beginning preparation.
func (o *Order) StartProcessing(actor string) error {
	return o.transitionTo(StatusProcessing, actor, "")
}

// MarkReadyForPickup records the order awaiting courier assignment and stamps
// readySince, which the proximity matcher uses for radius widening.
func (o *Order) MarkReadyForPickup(actor string) error {
	if err := o.transitionTo(StatusReadyForPickup, actor, ""); err != nil {
		return err
	}

	now := time.Now().UTC()
	o.readySince = &now
	return nil
}

// Assign binds the order to a courier and moves it to Assigned.
// The note typically records the matched distance for audit purposes.
func (o *Order) Assign(courierID kernel.UUID, actor, note string) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if err := o.transitionTo(StatusAssigned, actor, note); err != nil {
		return err
	}

	o.courierID = &courierID
	return nil
}

// Unassign reverts a rejected assignment: the order returns to ReadyForPickup
// and the courier reference is cleared. Valid only from Assigned.
//
// This is deliberately not part of the general transition table; it exists
// solely for the delivery-rejection coupling, so normal callers cannot move
// an order backwards through its lifecycle.
func (o *Order) Unassign(actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.status != StatusAssigned {
		return errs.NewInvalidStateTransitionError("order", o.status.String(), StatusReadyForPickup.String())
	}

	o.status = StatusReadyForPickup
	o.courierID = nil
	o.appendHistory(StatusReadyForPickup, actor, note)
	return nil
}

// MarkPickedUp records the courier collecting the order from the store.
func (o *Order) MarkPickedUp(actor string) error {
	return o.transitionTo(StatusPickedUp, actor, "")
}

// MarkOnTheWay records the courier en route to the customer.
func (o *Order) MarkOnTheWay(actor string) error {
	return o.transitionTo(StatusOnTheWay, actor, "")
}

// MarkDelivered records the order reaching the customer. Terminal.
func (o *Order) MarkDelivered(actor string) error {
	return o.transitionTo(StatusDelivered, actor, "")
}

// Cancel cancels the order from any non-terminal status and clears the
// courier reference if one was set. Terminal.
//
// Callers owning side effects must release reserved stock and free the
// courier after a successful cancellation.
func (o *Order) Cancel(actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}

	if err := o.transitionTo(StatusCancelled, actor, note); err != nil {
		return err
	}

	o.courierID = nil
	return nil
}

// CompletePayment records the payment as settled.
// For cash on delivery this is the settlement signal that unblocks the
// Delivered transition.
func (o *Order) CompletePayment() error {
	if err := o.Validate(); err != nil {
		return err
	}

	o.paymentStatus = PaymentCompleted
	return nil
}

// FailPayment records a failed gateway capture.
func (o *Order) FailPayment() error {
	if err := o.Validate(); err != nil {
		return err
	}

	o.paymentStatus = PaymentFailed
	return nil
}

// RefundPayment records a completed payment returned to the customer.
func (o *Order) RefundPayment() error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.paymentStatus != PaymentCompleted {
		return errs.NewInvalidStateTransitionError("payment", o.paymentStatus.String(), PaymentRefunded.String())
	}

	o.paymentStatus = PaymentRefunded
	return nil
}

// transitionTo validates the lifecycle transition, applies it and appends a
// history entry. All status mutations except Unassign go through here.
func (o *Order) transitionTo(next Status, actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendHistory(newStatus, actor, note)
	return nil
}

func (o *Order) appendHistory(status Status, actor, note string) {
	o.history = append(o.history, HistoryEntry{
		Status: status,
		At:     time.Now().UTC(),
		Actor:  actor,
		Note:   note,
	})
}

// setID validates and sets the order's unique identifier.
// This is a private setter used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setNumber validates and sets the customer-facing order number.
func (o *Order) setNumber(number string) error {
	if number == "" {
		return ErrNumberIsRequired
	}
	o.number = number
	return nil
}

// setCustomerID validates and sets the customer reference.
func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

// setPickupAddress validates and sets the store's street address.
func (o *Order) setPickupAddress(address string) error {
	if address == "" {
		return ErrPickupAddressIsRequired
	}
	o.pickupAddress = address
	return nil
}

// setDropoffAddress validates and sets the customer's street address.
func (o *Order) setDropoffAddress(address string) error {
	if address == "" {
		return ErrDropoffAddressIsRequired
	}
	o.dropoffAddress = address
	return nil
}

// setStatus validates and sets the lifecycle status during restoration.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setPaymentMethod validates and sets the payment method.
func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

// setPaymentStatus validates and sets the payment status during restoration.
func (o *Order) setPaymentStatus(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.paymentStatus = status
	return nil
}

// setPickup validates and sets the optional pickup coordinates.
func (o *Order) setPickup(pickup *kernel.GeoPoint) error {
	if pickup == nil {
		return nil
	}
	if err := pickup.Validate(); err != nil {
		return err
	}
	p := *pickup
	o.pickup = &p
	return nil
}

// setDropoff validates and sets the optional dropoff coordinates.
func (o *Order) setDropoff(dropoff *kernel.GeoPoint) error {
	if dropoff == nil {
		return nil
	}
	if err := dropoff.Validate(); err != nil {
		return err
	}
	p := *dropoff
	o.dropoff = &p
	return nil
}

// setCourierID validates and sets the optional courier reference during
// restoration, enforcing the status/courier invariant.
func (o *Order) setCourierID(courierID *kernel.UUID) error {
	if courierID == nil {
		if o.status.RequiresCourier() {
			return errs.NewValueIsRequiredError("courierID")
		}
		return nil
	}

	if err := courierID.Validate(); err != nil {
		return err
	}
	if !o.status.RequiresCourier() {
		return errs.NewValueIsInvalidError("courierID")
	}

	id := *courierID
	o.courierID = &id
	return nil
}
