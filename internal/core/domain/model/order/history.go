package order

import "time"

// HistoryEntry is one immutable record in an order's status history.
// Entries are append-only: every accepted status transition adds one, and
// existing entries are never modified or removed.
type HistoryEntry struct {
	// Status is the status the order entered.
	Status Status
	// At is when the transition was recorded.
	At time.Time
	// Actor identifies who triggered the transition (seller, courier,
	// customer, or the dispatcher itself).
	Actor string
	// Note carries free-form context, such as the matched distance on
	// assignment or a cancellation reason.
	Note string
}
