// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling conversion between domain entities and database rows.
package orderrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored as their string names so that raw read-model queries
// and manual inspection stay legible.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number         string    `gorm:"uniqueIndex"`
	CustomerID     uuid.UUID `gorm:"type:uuid"`
	Status         string    `gorm:"index"`
	PaymentMethod  string
	PaymentStatus  string
	Fee            int64
	PickupAddress  string
	DropoffAddress string
	PickupLat      *float64
	PickupLon      *float64
	DropoffLat     *float64
	DropoffLon     *float64
	CourierID      *uuid.UUID     `gorm:"type:uuid;index"`
	ReservedItems  pq.StringArray `gorm:"type:text[]"`
	ReadySince     *time.Time
	History        string `gorm:"type:jsonb"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// historyEntryDTO is the JSON shape of one status history record.
type historyEntryDTO struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	pickupLat, pickupLon := coordinates(aggregate.Pickup())
	dropoffLat, dropoffLon := coordinates(aggregate.Dropoff())

	history, err := marshalHistory(aggregate.History())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		Number:         aggregate.Number(),
		CustomerID:     aggregate.CustomerID().Bytes(),
		Status:         aggregate.Status().String(),
		PaymentMethod:  aggregate.PaymentMethod().String(),
		PaymentStatus:  aggregate.PaymentStatus().String(),
		Fee:            aggregate.Fee(),
		PickupAddress:  aggregate.PickupAddress(),
		DropoffAddress: aggregate.DropoffAddress(),
		PickupLat:      pickupLat,
		PickupLon:      pickupLon,
		DropoffLat:     dropoffLat,
		DropoffLon:     dropoffLon,
		CourierID:      courierID,
		ReservedItems:  pq.StringArray(aggregate.ReservedItems()),
		ReadySince:     aggregate.ReadySince(),
		History:        history,
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentMethod, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	pickup, err := geoPoint(dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}

	dropoff, err := geoPoint(dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}

	history, err := unmarshalHistory(dto.History)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		customerID,
		status,
		paymentMethod,
		paymentStatus,
		dto.Fee,
		dto.PickupAddress,
		dto.DropoffAddress,
		pickup,
		dropoff,
		courierID,
		[]string(dto.ReservedItems),
		dto.ReadySince,
		history,
	)
}

// coordinates splits an optional GeoPoint into nullable columns.
func coordinates(point *kernel.GeoPoint) (*float64, *float64) {
	if point == nil {
		return nil, nil
	}

	lat := point.Lat()
	lon := point.Lon()
	return &lat, &lon
}

// geoPoint rebuilds an optional GeoPoint from nullable columns.
func geoPoint(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// marshalHistory serializes the status history to its JSON column value.
func marshalHistory(entries []order.HistoryEntry) (string, error) {
	dtos := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, historyEntryDTO{
			Status: entry.Status.String(),
			At:     entry.At,
			Actor:  entry.Actor,
			Note:   entry.Note,
		})
	}

	raw, err := json.Marshal(dtos)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unmarshalHistory rebuilds the status history from its JSON column value.
func unmarshalHistory(raw string) ([]order.HistoryEntry, error) {
	if raw == "" {
		return nil, nil
	}

	var dtos []historyEntryDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, err
	}

	entries := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		status, err := order.StatusFromString(dto.Status)
		if err != nil {
			return nil, err
		}

		entries = append(entries, order.HistoryEntry{
			Status: status,
			At:     dto.At,
			Actor:  dto.Actor,
			Note:   dto.Note,
		})
	}

	return entries, nil
}
