// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence. It implements the repository pattern for the
// courier aggregate, handling conversion between domain entities and
// database rows.
package courierrepo

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier
// aggregates, indexed for the availability and busy scans of the dispatcher.
type CourierDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Active         bool `gorm:"index"`
	Busy           bool `gorm:"index"`
	LocationLat    *float64
	LocationLon    *float64
	CurrentOrderID *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	var currentOrderID *uuid.UUID
	if id := aggregate.CurrentOrder(); id != nil {
		raw := id.Bytes()
		currentOrderID = &raw
	}

	var lat, lon *float64
	if loc := aggregate.Location(); loc != nil {
		l := loc.Lat()
		lat = &l
		o := loc.Lon()
		lon = &o
	}

	return CourierDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		Active:         aggregate.IsActive(),
		Busy:           aggregate.IsBusy(),
		LocationLat:    lat,
		LocationLon:    lon,
		CurrentOrderID: currentOrderID,
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.CurrentOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrderID = &oID
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLon != nil {
		point, locErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLon)
		if locErr != nil {
			return nil, locErr
		}
		location = &point
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Active,
		dto.Busy,
		location,
		currentOrderID,
	)
}
