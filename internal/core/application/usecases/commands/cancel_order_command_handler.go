package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order from any non-terminal status.
// When the order carries an open delivery, that delivery is cancelled too and
// its courier is freed. Reserved stock is released afterwards, best effort.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.NotificationDispatcher
	releaser   ports.InventoryReleaser
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.NotificationDispatcher,
	releaser ports.InventoryReleaser,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		releaser:   releaser,
		logger:     logger.With("component", "order_cancellation"),
	}
}

// Handle cancels the order and its open delivery, frees the courier and
// releases reserved stock.
func (h CancelOrderCommandHandler) Handle(
	ctx context.Context, command CancelOrderCommand,
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

	if err = o.Cancel(actorSeller, command.Reason()); err != nil {
		return err
	}
	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = h.cancelOpenDelivery(ctx, uow, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.releaseStock(ctx, o)
	h.notifyCancelled(ctx, o)
	return nil
}

// cancelOpenDelivery cancels the order's open delivery, if any, and frees its
// courier. An order without an open delivery is the common case for
// cancellations before assignment.
func (h CancelOrderCommandHandler) cancelOpenDelivery(
	ctx context.Context, uow UoW, o *order.Order,
) error {
	d, err := uow.DeliveryRepository().GetOpenByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = d.Cancel(); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	c, err := uow.CourierRepository().Get(ctx, d.CourierID())
	if err != nil {
		return err
	}
	if err = c.Release(); err != nil {
		return err
	}
	return uow.CourierRepository().Update(ctx, c)
}

// releaseStock returns the order's reserved stock to the catalog.
// Best effort: failures are logged and never undo the cancellation.
func (h CancelOrderCommandHandler) releaseStock(ctx context.Context, o *order.Order) {
	items := o.ReservedItems()
	if len(items) == 0 {
		return
	}

	if err := h.releaser.ReleaseReservedStock(ctx, items); err != nil {
		h.logger.WarnContext(ctx, "stock release failed",
			"order", o.Number(), "items", len(items), "error", err)
	}
}

// notifyCancelled informs the customer that the order was cancelled.
// Best effort: failures are logged and never undo the commit.
func (h CancelOrderCommandHandler) notifyCancelled(ctx context.Context, o *order.Order) {
	n := ports.Notification{
		Recipient: o.CustomerID(),
		Role:      ports.RoleCustomer,
		Type:      ports.NotificationOrderCancelled,
		Payload:   map[string]any{"orderNumber": o.Number()},
	}

	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "cancellation notification failed",
			"order", o.Number(), "error", err)
	}
}
