package order

import (
	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct business workflow.
//
// State transitions:
//
//	Pending ──┬──> Accepted ──> Processing ──> ReadyForPickup ──> Assigned ──> PickedUp ──┬──> OnTheWay ──> Delivered
//	          │                                                                           └──────────────> Delivered
//	          └──> Rejected
//
//	Cancelled is reachable from every non-terminal status.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status assigned at checkout, awaiting the seller's decision.
	StatusPending

	// StatusAccepted indicates the seller accepted the order.
	StatusAccepted

	// StatusRejected indicates the seller declined the order. Terminal.
	StatusRejected

	// StatusProcessing indicates the seller is preparing the order.
	StatusProcessing

	// StatusReadyForPickup indicates the order awaits courier assignment.
	// Orders in this status are the input queue of the dispatch sweep.
	StatusReadyForPickup

	// StatusAssigned indicates a courier has been bound to the order.
	StatusAssigned

	// StatusPickedUp indicates the courier collected the order from the store.
	StatusPickedUp

	// StatusOnTheWay indicates the courier is en route to the customer.
	StatusOnTheWay

	// StatusDelivered indicates the order reached the customer. Terminal.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled before delivery. Terminal.
	StatusCancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "Unknown",
		StatusPending:        "Pending",
		StatusAccepted:       "Accepted",
		StatusRejected:       "Rejected",
		StatusProcessing:     "Processing",
		StatusReadyForPickup: "ReadyForPickup",
		StatusAssigned:       "Assigned",
		StatusPickedUp:       "PickedUp",
		StatusOnTheWay:       "OnTheWay",
		StatusDelivered:      "Delivered",
		StatusCancelled:      "Cancelled",
	}
}

// getAllowedTransitions returns the transition table of the order lifecycle.
// A transition absent from this table fails with an invalid state transition error.
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:        {StatusAccepted, StatusRejected, StatusCancelled},
		StatusAccepted:       {StatusProcessing, StatusCancelled},
		StatusProcessing:     {StatusReadyForPickup, StatusCancelled},
		StatusReadyForPickup: {StatusAssigned, StatusCancelled},
		StatusAssigned:       {StatusPickedUp, StatusCancelled},
		StatusPickedUp:       {StatusOnTheWay, StatusDelivered, StatusCancelled},
		StatusOnTheWay:       {StatusDelivered, StatusCancelled},
	}
}

// Validate checks if the Status value is a valid order status.
// StatusUnknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidError("status")
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements the fmt.Stringer interface and is safe to call on any Status
// value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status from its string representation.
// Used when reconstructing orders from persistence or parsing API input.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status")
}

// IsTerminal reports whether the status ends the order lifecycle.
// Terminal statuses are Delivered, Cancelled and Rejected.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRejected
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns the next status if the transition is permitted,
// or an InvalidStateTransitionError otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(next) {
		return StatusUnknown, errs.NewInvalidStateTransitionError("order", s.String(), next.String())
	}
	return next, nil
}

// RequiresCourier reports whether an order in this status must carry a
// courier reference. Mirrors the invariant that deliveryPerson is set if and
// only if the order is Assigned, PickedUp, OnTheWay or Delivered.
func (s Status) RequiresCourier() bool {
	switch s {
	case StatusAssigned, StatusPickedUp, StatusOnTheWay, StatusDelivered:
		return true
	default:
		return false
	}
}
