package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RejectAssignmentCommandHandler handles a courier declining a Pending
// delivery: the delivery is cancelled, the order reverts to ReadyForPickup
// with its courier reference cleared, the courier is freed, and one
// reassignment attempt runs immediately so the order does not wait for the
// next periodic sweep.
type RejectAssignmentCommandHandler struct {
	uowFactory    UoWFactory
	assignHandler AssignOrderCommandHandler
	notifier      ports.NotificationDispatcher
	logger        *slog.Logger
}

// NewRejectAssignmentCommandHandler creates a handler for assignment rejections.
func NewRejectAssignmentCommandHandler(
	uowFactory UoWFactory,
	assignHandler AssignOrderCommandHandler,
	notifier ports.NotificationDispatcher,
	logger *slog.Logger,
) RejectAssignmentCommandHandler {
	return RejectAssignmentCommandHandler{
		uowFactory:    uowFactory,
		assignHandler: assignHandler,
		notifier:      notifier,
		logger:        logger.With("component", "assignment_rejection"),
	}
}

// Handle performs the rejection coupling and triggers the event sweep.
// Rejecting a delivery that already progressed past Pending fails with an
// invalid state transition error.
func (h RejectAssignmentCommandHandler) Handle(
	ctx context.Context, command RejectAssignmentCommand,
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

	deliveriesRepo := uow.DeliveryRepository()
	ordersRepo := uow.OrderRepository()
	couriersRepo := uow.CourierRepository()

	d, err := deliveriesRepo.Get(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	if d.Status() != delivery.StatusPending {
		return errs.NewInvalidStateTransitionError(
			"delivery", d.Status().String(), delivery.StatusCancelled.String(),
		)
	}
	if err = d.Cancel(); err != nil {
		return err
	}

	o, err := ordersRepo.Get(ctx, d.OrderID())
	if err != nil {
		return err
	}
	if err = o.Unassign(actorCourier, rejectionNote(command.Reason())); err != nil {
		return err
	}

	c, err := couriersRepo.Get(ctx, d.CourierID())
	if err != nil {
		return err
	}
	if err = c.Release(); err != nil {
		return err
	}

	if err = deliveriesRepo.Update(ctx, d); err != nil {
		return err
	}
	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = couriersRepo.Update(ctx, c); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyRejected(ctx, o)
	h.reassign(ctx, o)
	return nil
}

// notifyRejected informs the customer that the assignment fell through.
// Best effort: failures are logged and never undo the commit.
func (h RejectAssignmentCommandHandler) notifyRejected(ctx context.Context, o *order.Order) {
	n := ports.Notification{
		Recipient: o.CustomerID(),
		Role:      ports.RoleCustomer,
		Type:      ports.NotificationDeliveryRejected,
		Payload:   map[string]any{"orderNumber": o.Number()},
	}

	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "rejection notification failed",
			"order", o.Number(), "error", err)
	}
}

// reassign runs one immediate assignment attempt for the reopened order.
// The outcome is informational; the periodic sweep remains the safety net.
func (h RejectAssignmentCommandHandler) reassign(ctx context.Context, o *order.Order) {
	cmd, err := NewAssignOrderCommand(o.ID())
	if err != nil {
		h.logger.WarnContext(ctx, "reassignment command failed", "order", o.Number(), "error", err)
		return
	}

	result, err := h.assignHandler.Handle(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "reassignment attempt failed", "order", o.Number(), "error", err)
		return
	}

	h.logger.InfoContext(ctx, "reassignment attempted", "order", o.Number(), "result", result.String())
}

// rejectionNote renders the history note recorded with the unassign transition.
func rejectionNote(reason string) string {
	if reason == "" {
		return "assignment rejected by courier"
	}
	return fmt.Sprintf("assignment rejected by courier: %s", reason)
}
