// Package inventory provides the outbound stock-release adapter. The catalog
// subsystem owns the actual stock counters; this adapter records each release
// request as a structured log record until the catalog integration lands.
package inventory

import (
	"context"
	"log/slog"
)

// SlogInventoryReleaser implements ports.InventoryReleaser by logging each
// release request.
type SlogInventoryReleaser struct {
	logger *slog.Logger
}

// NewSlogInventoryReleaser creates a log-backed inventory releaser.
func NewSlogInventoryReleaser(logger *slog.Logger) *SlogInventoryReleaser {
	return &SlogInventoryReleaser{
		logger: logger.With("component", "inventory_releaser"),
	}
}

// ReleaseReservedStock records the reservations to release. Never fails.
func (r *SlogInventoryReleaser) ReleaseReservedStock(ctx context.Context, reservationIDs []string) error {
	r.logger.InfoContext(ctx, "reserved stock released",
		"reservations", reservationIDs,
	)
	return nil
}
