package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRecordCashSettlementCommandIsNotConstructed = errors.New(
	"RecordCashSettlementCommand must be created via NewRecordCashSettlementCommand constructor",
)

// RecordCashSettlementCommand records that cash collected for a
// cash-on-delivery order has been reconciled, unblocking the Delivered
// transition of its delivery.
type RecordCashSettlementCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewRecordCashSettlementCommand creates a command to settle the given order.
func NewRecordCashSettlementCommand(orderID kernel.UUID) (RecordCashSettlementCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RecordCashSettlementCommand{}, err
	}

	return RecordCashSettlementCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order whose cash payment is settled.
func (c *RecordCashSettlementCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Validate ensures the command was created through the constructor.
func (c *RecordCashSettlementCommand) Validate() error {
	return c.guard.Validate(
		ErrRecordCashSettlementCommandIsNotConstructed,
	)
}
