// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. It implements the repository pattern for the
// delivery record, the one aggregate fully owned by the dispatch core.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// records. CreatedAt orders the live operations view; the status index
// serves the open-delivery lookups of the cancellation and self-heal paths.
type DeliveryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	CourierID      uuid.UUID `gorm:"type:uuid;index"`
	Status         string    `gorm:"index"`
	PickupAddress  string
	DropoffAddress string
	Fee            int64
	EstimatedAt    *time.Time
	DeliveredAt    *time.Time
	Rating         *int
	Review         string
	CreatedAt      time.Time
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// fromDomain converts a delivery domain aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:             aggregate.ID().Bytes(),
		OrderID:        aggregate.OrderID().Bytes(),
		CourierID:      aggregate.CourierID().Bytes(),
		Status:         aggregate.Status().String(),
		PickupAddress:  aggregate.PickupAddress(),
		DropoffAddress: aggregate.DropoffAddress(),
		Fee:            aggregate.Fee(),
		EstimatedAt:    aggregate.EstimatedAt(),
		DeliveredAt:    aggregate.DeliveredAt(),
		Rating:         aggregate.Rating(),
		Review:         aggregate.Review(),
	}
}

// toDomain converts a database DTO to a delivery domain aggregate.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	status, err := delivery.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id,
		orderID,
		courierID,
		status,
		dto.PickupAddress,
		dto.DropoffAddress,
		dto.Fee,
		dto.EstimatedAt,
		dto.DeliveredAt,
		dto.Rating,
		dto.Review,
	)
}
