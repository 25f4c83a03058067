package ports

import "context"

// InventoryReleaser returns reserved stock to the catalog when an order is
// cancelled or rejected. The catalog subsystem owns the actual stock
// counters; release is best-effort from the dispatch core's point of view
// and never rolls back the cancellation it was attached to.
type InventoryReleaser interface {
	ReleaseReservedStock(ctx context.Context, reservationIDs []string) error
}
