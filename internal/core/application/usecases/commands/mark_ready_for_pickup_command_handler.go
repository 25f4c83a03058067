package commands

import (
	"context"
)

// MarkReadyForPickupCommandHandler transitions an order from Processing to
// ReadyForPickup and then synchronously runs one assignment attempt through
// the assignment coordinator - the exact same path the sweep uses, so the
// manual trigger does not open a second race window.
type MarkReadyForPickupCommandHandler struct {
	uowFactory    OrderUoWFactory
	assignHandler AssignOrderCommandHandler
}

// NewMarkReadyForPickupCommandHandler creates a handler for the mark-ready operation.
func NewMarkReadyForPickupCommandHandler(
	uowFactory OrderUoWFactory,
	assignHandler AssignOrderCommandHandler,
) MarkReadyForPickupCommandHandler {
	return MarkReadyForPickupCommandHandler{
		uowFactory:    uowFactory,
		assignHandler: assignHandler,
	}
}

// Handle marks the order ready and attempts an immediate assignment.
// The returned AssignmentResult describes the attempt; a Skipped or
// NoCourierAvailable outcome leaves the order for the periodic sweep.
func (h MarkReadyForPickupCommandHandler) Handle(
	ctx context.Context, command MarkReadyForPickupCommand,
) (AssignmentResult, error) {
	if err := command.Validate(); err != nil {
		return ResultUnknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ResultUnknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return ResultUnknown, err
	}

	if err = o.MarkReadyForPickup(actorSeller); err != nil {
		return ResultUnknown, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return ResultUnknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ResultUnknown, err
	}

	assignCmd, err := NewAssignOrderCommand(command.OrderID())
	if err != nil {
		return ResultUnknown, err
	}

	return h.assignHandler.Handle(ctx, assignCmd)
}
