package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves all couriers that are online and not busy.
	// These are the candidates of the proximity search.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)

	// GetAllBusy retrieves all couriers whose busy flag is set. Used by the
	// sweep's self-heal to find couriers stuck without an active delivery.
	GetAllBusy(ctx context.Context) ([]*courier.Courier, error)

	// ClaimIfFree persists a claim with a conditional update: the stored row
	// must still be active and not busy. Returns ErrAssignmentConflict when
	// another process claimed the courier first.
	ClaimIfFree(ctx context.Context, aggregate *courier.Courier) error
}
