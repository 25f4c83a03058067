package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ErrCourierHasActiveDelivery is returned when a courier tries to go offline
// while carrying a delivery that already progressed past Pending.
var ErrCourierHasActiveDelivery = fmt.Errorf(
	"%w: courier has an active delivery and cannot go offline", errs.ErrInvalidStateTransition,
)

// onlineSweepOrdersLimit caps how many unassigned orders the online trigger
// inspects when searching for the closest one.
const onlineSweepOrdersLimit = 50

// ToggleCourierOnlineCommandHandler flips courier availability.
//
// Going online searches the single closest unassigned order for this courier
// and runs one assignment attempt for it, instead of sweeping the whole
// queue. Going offline is rejected while the courier's open delivery is
// beyond Pending; a Pending delivery does not block it because the courier
// can still reject that assignment.
type ToggleCourierOnlineCommandHandler struct {
	uowFactory    UoWFactory
	assignHandler AssignOrderCommandHandler
	logger        *slog.Logger
}

// NewToggleCourierOnlineCommandHandler creates a handler for availability toggles.
func NewToggleCourierOnlineCommandHandler(
	uowFactory UoWFactory,
	assignHandler AssignOrderCommandHandler,
	logger *slog.Logger,
) ToggleCourierOnlineCommandHandler {
	return ToggleCourierOnlineCommandHandler{
		uowFactory:    uowFactory,
		assignHandler: assignHandler,
		logger:        logger.With("component", "courier_availability"),
	}
}

// Handle applies the availability change and, when the courier comes online,
// fires the event-triggered assignment attempt.
func (h ToggleCourierOnlineCommandHandler) Handle(
	ctx context.Context, command ToggleCourierOnlineCommand,
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

	couriersRepo := uow.CourierRepository()

	c, err := couriersRepo.Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	if command.Online() {
		if err = c.GoOnline(); err != nil {
			return err
		}
	} else {
		d, findErr := uow.DeliveryRepository().GetOpenByCourier(ctx, command.CourierID())
		if findErr != nil && !errors.Is(findErr, errs.ErrObjectNotFound) {
			return findErr
		}
		if findErr == nil && d.Status().IsActive() {
			return ErrCourierHasActiveDelivery
		}

		if err = c.GoOffline(); err != nil {
			return err
		}
	}

	if err = couriersRepo.Update(ctx, c); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if command.Online() {
		h.assignClosestOrder(ctx, command.CourierID())
	}
	return nil
}

// assignClosestOrder picks the unassigned order whose pickup is closest to
// the courier's last reported location and runs one assignment attempt for
// it. Best effort: failures are logged and the periodic sweep remains the
// safety net.
func (h ToggleCourierOnlineCommandHandler) assignClosestOrder(ctx context.Context, courierID kernel.UUID) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.WarnContext(ctx, "online trigger failed to begin read", "courier", courierID.String(), "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	c, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		h.logger.WarnContext(ctx, "online trigger failed to load courier", "courier", courierID.String(), "error", err)
		return
	}

	candidates, err := uow.OrderRepository().GetAllReadyUnassigned(ctx, onlineSweepOrdersLimit)
	if err != nil {
		h.logger.WarnContext(ctx, "online trigger failed to load orders", "courier", courierID.String(), "error", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	target := closestOrderTo(c.Location(), candidates)

	cmd, err := NewAssignOrderCommand(target.ID())
	if err != nil {
		h.logger.WarnContext(ctx, "online trigger failed to build command", "courier", courierID.String(), "error", err)
		return
	}

	result, err := h.assignHandler.Handle(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "online trigger assignment failed",
			"courier", courierID.String(), "order", target.Number(), "error", err)
		return
	}

	h.logger.InfoContext(ctx, "online trigger assignment attempted",
		"courier", courierID.String(), "order", target.Number(), "result", result.String())
}

// closestOrderTo selects the order whose pickup is nearest to the courier's
// location. Orders without pickup coordinates rank last; without a courier
// location the oldest order wins. Ties resolve to the first candidate.
func closestOrderTo(location *kernel.GeoPoint, candidates []*order.Order) *order.Order {
	if location == nil {
		return candidates[0]
	}

	var best *order.Order
	var bestDistance float64

	for _, o := range candidates {
		if o.Pickup() == nil {
			continue
		}

		distance, err := location.DistanceKmTo(*o.Pickup())
		if err != nil {
			continue
		}

		if best == nil || distance < bestDistance {
			best = o
			bestDistance = distance
		}
	}

	if best == nil {
		return candidates[0]
	}
	return best
}
