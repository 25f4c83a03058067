// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order moves through the statuses Pending, Accepted, Processing,
// ReadyForPickup, Assigned, PickedUp, OnTheWay and ends in one of the
// terminal statuses Delivered, Cancelled or Rejected. Every accepted
// transition appends an immutable history entry recording who changed the
// status and why.
//
// The dispatch core consumes orders from the moment they become
// ReadyForPickup; creation and the earlier merchant-facing transitions are
// driven by the external checkout subsystem through the same aggregate.
package order
