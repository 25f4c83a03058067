package commands

import (
	"context"
)

// RecordCashSettlementCommandHandler marks an order's payment as completed.
// This is the settlement signal the delivery completion gate checks before
// letting a cash-on-delivery order transition to Delivered.
type RecordCashSettlementCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRecordCashSettlementCommandHandler creates a handler for cash settlements.
func NewRecordCashSettlementCommandHandler(uowFactory OrderUoWFactory) RecordCashSettlementCommandHandler {
	return RecordCashSettlementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the settlement on the order's payment status.
func (h RecordCashSettlementCommandHandler) Handle(
	ctx context.Context, command RecordCashSettlementCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = o.CompletePayment(); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
