package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignOrderCommandHandler is the assignment coordinator. It orchestrates
// matching one ReadyForPickup order to an available courier and committing
// the assignment (order status, delivery record, courier state) as a single
// transactional unit.
//
// Race handling: candidate matching runs on a snapshot, so the commit uses
// conditional repository updates (AssignIfReady on the order, ClaimIfFree on
// the courier). When either condition fails, another process won the race;
// the attempt reports Skipped and the next sweep reconsiders the order.
//
// Example:
//
//	handler := NewAssignOrderCommandHandler(uowFactory, matcher, notifier, logger)
//	cmd, _ := NewAssignOrderCommand(orderID)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case err != nil:
//	    log.Printf("assignment failed: %v", err)
//	case result == ResultAssigned:
//	    log.Println("courier assigned")
//	default:
//	    log.Printf("order left for next sweep: %s", result)
//	}
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	matcher    services.ProximityMatcher
	notifier   ports.NotificationDispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewAssignOrderCommandHandler creates the assignment coordinator.
func NewAssignOrderCommandHandler(
	uowFactory UoWFactory,
	matcher services.ProximityMatcher,
	notifier ports.NotificationDispatcher,
	logger *slog.Logger,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		notifier:   notifier,
		logger:     logger.With("component", "assignment_coordinator"),
		now:        time.Now,
	}
}

// Handle attempts to assign the command's order to the best available courier.
//
// Outcomes: ResultAssigned on success, ResultSkipped when another process won
// the race (not retried within this call), ResultNoCourierAvailable when no
// eligible courier exists anywhere. Only infrastructure failures and a
// missing order surface as errors.
func (h AssignOrderCommandHandler) Handle(
	ctx context.Context, command AssignOrderCommand,
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
	couriersRepo := uow.CourierRepository()
	deliveriesRepo := uow.DeliveryRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return ResultUnknown, err
	}

	if o.Status() != order.StatusReadyForPickup || o.Courier() != nil {
		return ResultSkipped, nil
	}

	candidates, err := couriersRepo.GetAllAvailable(ctx)
	if err != nil {
		return ResultUnknown, err
	}
	if len(candidates) == 0 {
		return ResultNoCourierAvailable, nil
	}

	match, err := h.matcher.Match(o.Pickup(), o.WaitedFor(h.now()), candidates)
	if errors.Is(err, services.ErrCourierNotFound) {
		return ResultNoCourierAvailable, nil
	}
	if err != nil {
		return ResultUnknown, err
	}

	selected := match.Courier
	if err = selected.Claim(o.ID()); err != nil {
		return ResultUnknown, err
	}
	if err = o.Assign(selected.ID(), actorDispatcher, assignmentNote(match)); err != nil {
		return ResultUnknown, err
	}

	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		o.ID(),
		selected.ID(),
		o.PickupAddress(),
		o.DropoffAddress(),
		o.Fee(),
		nil,
	)
	if err != nil {
		return ResultUnknown, err
	}

	// Conditional updates close the window between matching and commit.
	if err = ordersRepo.AssignIfReady(ctx, o); err != nil {
		if errors.Is(err, ports.ErrAssignmentConflict) {
			return ResultSkipped, nil
		}
		return ResultUnknown, err
	}
	if err = couriersRepo.ClaimIfFree(ctx, selected); err != nil {
		if errors.Is(err, ports.ErrAssignmentConflict) {
			return ResultSkipped, nil
		}
		return ResultUnknown, err
	}
	if err = deliveriesRepo.Add(ctx, d); err != nil {
		return ResultUnknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ResultUnknown, err
	}

	h.notifyAssigned(ctx, o, selected)
	return ResultAssigned, nil
}

// notifyAssigned dispatches the assignment notifications to the customer and
// the courier. Best effort: failures are logged and never undo the commit.
func (h AssignOrderCommandHandler) notifyAssigned(ctx context.Context, o *order.Order, c *courier.Courier) {
	payload := map[string]any{
		"orderNumber": o.Number(),
		"courierName": c.Name(),
	}

	notifications := []ports.Notification{
		{Recipient: o.CustomerID(), Role: ports.RoleCustomer, Type: ports.NotificationOrderAssigned, Payload: payload},
		{Recipient: c.ID(), Role: ports.RoleCourier, Type: ports.NotificationOrderAssigned, Payload: payload},
	}

	for _, n := range notifications {
		if err := h.notifier.Notify(ctx, n); err != nil {
			h.logger.WarnContext(ctx, "assignment notification failed",
				"order", o.Number(), "recipient", n.Recipient.String(), "error", err)
		}
	}
}

// assignmentNote renders the history note recorded with the Assigned
// transition, including the matched distance when one was known.
func assignmentNote(match services.Match) string {
	if match.DistanceKm == nil {
		return fmt.Sprintf("assigned to courier %s, distance unknown", match.Courier.ID())
	}
	return fmt.Sprintf("assigned to courier %s at %.2f km", match.Courier.ID(), *match.DistanceKm)
}
