package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveDeliveriesQueryHandler retrieves in-flight deliveries directly
// from the database. Uses raw SQL for optimal read performance in the CQRS
// pattern.
type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveDeliveriesQueryHandler creates a handler for the live operations view.
func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

// Handle executes the query and returns in-flight deliveries, oldest first.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			courier_id,
			status,
			dropoff_address,
			estimated_at
		FROM deliveries
		WHERE status IN ('Accepted', 'PickedUp', 'OnTheWay')
		ORDER BY created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetActiveDeliveriesQueryResponse
		var id, orderID, courierID uuid.UUID
		var estimatedAt sql.NullTime

		err = rows.Scan(
			&id,
			&orderID,
			&courierID,
			&response.Status,
			&response.DropoffAddress,
			&estimatedAt,
		)
		if err != nil {
			return nil, err
		}

		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if response.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if response.CourierID, err = kernel.UUIDFromBytes(courierID[:]); err != nil {
			return nil, err
		}

		if estimatedAt.Valid {
			t := estimatedAt.Time
			response.EstimatedAt = &t
		}

		deliveries = append(deliveries, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
