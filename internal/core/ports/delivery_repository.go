package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery records.
// Delivery records are fully owned by the dispatch core.
type DeliveryRepository interface {
	// Add persists a new delivery record to storage.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery record.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetOpenByOrder retrieves the single non-terminal delivery for an
	// order. Returns an ObjectNotFoundError when the order has none; earlier
	// cancelled records for the same order are ignored.
	GetOpenByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetOpenByCourier retrieves the single non-terminal delivery handled by
	// a courier. Returns an ObjectNotFoundError when the courier has none.
	GetOpenByCourier(ctx context.Context, courierID kernel.UUID) (*delivery.Delivery, error)
}
