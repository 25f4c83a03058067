// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, and the external
// collaborators (notifications, inventory). These interfaces enable
// dependency inversion and testability.
package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// ErrAssignmentConflict is returned by conditional repository updates when
// another process already assigned the order or claimed the courier. The
// assignment coordinator treats it as a skip, never as a hard failure.
var ErrAssignmentConflict = errors.New("assignment conflict")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllReadyUnassigned retrieves up to limit orders that are
	// ReadyForPickup with no courier assigned, oldest first. This is the
	// input queue of the reconciliation sweep.
	GetAllReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error)

	// AssignIfReady persists an assignment with a conditional update: the
	// stored row must still be ReadyForPickup with no courier. Returns
	// ErrAssignmentConflict when another process won the race.
	AssignIfReady(ctx context.Context, aggregate *order.Order) error
}
