package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UpdateDeliveryStatusCommandHandler applies delivery lifecycle transitions
// and their coupling rules:
//
//   - PickedUp and OnTheWay mirror the order to the same status.
//   - Delivered is blocked with a SettlementRequiredError while a
//     cash-on-delivery order has unreconciled payment; on success it stamps
//     the actual delivery time, mirrors the order and frees the courier.
//   - Cancelled while the delivery is still Pending is a rejection and is
//     delegated to the rejection flow (order reopens, event sweep fires).
//   - Cancelled after the courier accepted abandons the whole order: the
//     order cancels, the courier is freed and reserved stock is released.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory    UoWFactory
	rejectHandler RejectAssignmentCommandHandler
	notifier      ports.NotificationDispatcher
	releaser      ports.InventoryReleaser
	logger        *slog.Logger
	now           func() time.Time
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for delivery status updates.
func NewUpdateDeliveryStatusCommandHandler(
	uowFactory UoWFactory,
	rejectHandler RejectAssignmentCommandHandler,
	notifier ports.NotificationDispatcher,
	releaser ports.InventoryReleaser,
	logger *slog.Logger,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory:    uowFactory,
		rejectHandler: rejectHandler,
		notifier:      notifier,
		releaser:      releaser,
		logger:        logger.With("component", "delivery_status"),
		now:           time.Now,
	}
}

// Handle moves the delivery to the requested status and applies the coupled
// order and courier changes atomically.
func (h UpdateDeliveryStatusCommandHandler) Handle(
	ctx context.Context, command UpdateDeliveryStatusCommand,
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

	d, err := uow.DeliveryRepository().Get(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	switch command.NewStatus() {
	case delivery.StatusAccepted:
		return h.accept(ctx, uow, d)
	case delivery.StatusPickedUp:
		return h.mirror(ctx, uow, d, delivery.StatusPickedUp)
	case delivery.StatusOnTheWay:
		return h.mirror(ctx, uow, d, delivery.StatusOnTheWay)
	case delivery.StatusDelivered:
		return h.complete(ctx, uow, d)
	case delivery.StatusCancelled:
		if d.Status() == delivery.StatusPending {
			// A Pending cancellation is a rejection; hand over to the
			// rejection flow on a fresh transaction.
			_ = uow.Rollback(ctx)
			return h.reject(ctx, command.DeliveryID())
		}
		return h.cancel(ctx, uow, d)
	default:
		return errs.NewInvalidStateTransitionError(
			"delivery", d.Status().String(), command.NewStatus().String(),
		)
	}
}

// accept records the courier accepting the assignment. No order coupling.
func (h UpdateDeliveryStatusCommandHandler) accept(
	ctx context.Context, uow UoW, d *delivery.Delivery,
) error {
	if err := d.Accept(); err != nil {
		return err
	}
	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// mirror applies PickedUp or OnTheWay to the delivery and mirrors the order
// to the same status.
func (h UpdateDeliveryStatusCommandHandler) mirror(
	ctx context.Context, uow UoW, d *delivery.Delivery, target delivery.Status,
) error {
	o, err := uow.OrderRepository().Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	if target == delivery.StatusPickedUp {
		if err = d.MarkPickedUp(); err != nil {
			return err
		}
		if err = o.MarkPickedUp(actorCourier); err != nil {
			return err
		}
	} else {
		if err = d.MarkOnTheWay(); err != nil {
			return err
		}
		if err = o.MarkOnTheWay(actorCourier); err != nil {
			return err
		}
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// complete finishes the delivery: the settlement gate runs first, then the
// delivery stamps its actual time, the order mirrors to Delivered and the
// courier is freed.
func (h UpdateDeliveryStatusCommandHandler) complete(
	ctx context.Context, uow UoW, d *delivery.Delivery,
) error {
	o, err := uow.OrderRepository().Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	if o.PaymentMethod() == order.CashOnDelivery && o.PaymentStatus() != order.PaymentCompleted {
		return errs.NewSettlementRequiredError(o.Number())
	}

	if err = d.Complete(h.now()); err != nil {
		return err
	}
	if err = o.MarkDelivered(actorCourier); err != nil {
		return err
	}

	c, err := uow.CourierRepository().Get(ctx, d.CourierID())
	if err != nil {
		return err
	}
	if err = c.Release(); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notify(ctx, o, ports.NotificationOrderDelivered)
	return nil
}

// cancel abandons a delivery that already progressed past Pending, which
// cancels the whole order, frees the courier and releases reserved stock.
func (h UpdateDeliveryStatusCommandHandler) cancel(
	ctx context.Context, uow UoW, d *delivery.Delivery,
) error {
	if err := d.Cancel(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, d.OrderID())
	if err != nil {
		return err
	}
	if err = o.Cancel(actorCourier, "delivery abandoned by courier"); err != nil {
		return err
	}

	c, err := uow.CourierRepository().Get(ctx, d.CourierID())
	if err != nil {
		return err
	}
	if err = c.Release(); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.releaseStock(ctx, o)
	h.notify(ctx, o, ports.NotificationOrderCancelled)
	return nil
}

// reject delegates a Pending cancellation to the rejection flow.
func (h UpdateDeliveryStatusCommandHandler) reject(ctx context.Context, deliveryID kernel.UUID) error {
	cmd, err := NewRejectAssignmentCommand(deliveryID, "")
	if err != nil {
		return err
	}
	return h.rejectHandler.Handle(ctx, cmd)
}

// releaseStock returns the order's reserved stock to the catalog.
// Best effort: failures are logged and never undo the cancellation.
func (h UpdateDeliveryStatusCommandHandler) releaseStock(ctx context.Context, o *order.Order) {
	items := o.ReservedItems()
	if len(items) == 0 {
		return
	}

	if err := h.releaser.ReleaseReservedStock(ctx, items); err != nil {
		h.logger.WarnContext(ctx, "stock release failed",
			"order", o.Number(), "items", len(items), "error", err)
	}
}

// notify informs the customer about a terminal order outcome.
// Best effort: failures are logged and never undo the commit.
func (h UpdateDeliveryStatusCommandHandler) notify(ctx context.Context, o *order.Order, kind string) {
	n := ports.Notification{
		Recipient: o.CustomerID(),
		Role:      ports.RoleCustomer,
		Type:      kind,
		Payload:   map[string]any{"orderNumber": o.Number()},
	}

	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "delivery status notification failed",
			"order", o.Number(), "type", kind, "error", err)
	}
}
