package delivery

import (
	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery record.
//
// State transitions:
//
//	Pending ──> Accepted ──> PickedUp ──┬──> OnTheWay ──> Delivered
//	                                    └──────────────> Delivered
//
//	Cancelled is reachable from every non-terminal status. Cancelling a
//	Pending delivery is a rejection and reopens the order for reassignment.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending means the delivery was created by an assignment and
	// awaits the courier's acceptance.
	StatusPending

	// StatusAccepted means the courier accepted the assignment.
	StatusAccepted

	// StatusPickedUp means the courier collected the order from the store.
	StatusPickedUp

	// StatusOnTheWay means the courier is en route to the customer.
	StatusOnTheWay

	// StatusDelivered means the order was handed to the customer. Terminal.
	StatusDelivered

	// StatusCancelled means the delivery was abandoned. Terminal. A
	// cancelled delivery does not block a new one for the same order.
	StatusCancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusPending:   "Pending",
		StatusAccepted:  "Accepted",
		StatusPickedUp:  "PickedUp",
		StatusOnTheWay:  "OnTheWay",
		StatusDelivered: "Delivered",
		StatusCancelled: "Cancelled",
	}
}

// getAllowedTransitions returns the transition table of the delivery lifecycle.
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:  {StatusAccepted, StatusCancelled},
		StatusAccepted: {StatusPickedUp, StatusCancelled},
		StatusPickedUp: {StatusOnTheWay, StatusDelivered, StatusCancelled},
		StatusOnTheWay: {StatusDelivered, StatusCancelled},
	}
}

// Validate checks if the Status value is a valid delivery status.
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
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status from its string representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status")
}

// IsTerminal reports whether the status ends the delivery lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive reports whether a delivery in this status occupies its courier.
// Active statuses are Accepted, PickedUp and OnTheWay; they are what makes a
// courier's busy flag legitimate.
func (s Status) IsActive() bool {
	return s == StatusAccepted || s == StatusPickedUp || s == StatusOnTheWay
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
		return StatusUnknown, errs.NewInvalidStateTransitionError("delivery", s.String(), next.String())
	}
	return next, nil
}
