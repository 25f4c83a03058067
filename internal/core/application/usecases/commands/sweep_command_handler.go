package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DefaultSweepBatchSize caps how many waiting orders one sweep pass examines.
const DefaultSweepBatchSize = 50

// SweepReport summarizes one reconciliation pass.
type SweepReport struct {
	// OrdersExamined is how many waiting orders the pass fetched.
	OrdersExamined int
	// Assigned counts orders bound to a courier during this pass.
	Assigned int
	// Skipped counts orders another process assigned concurrently.
	Skipped int
	// NoCourierAvailable counts orders left waiting for lack of couriers.
	NoCourierAvailable int
	// Failed counts orders whose assignment attempt errored.
	Failed int
	// CouriersHealed counts busy flags cleared by the self-heal scan.
	CouriersHealed int
}

// SweepCommandHandler runs one periodic-sweep pass: it fetches waiting orders
// oldest first, runs the assignment coordinator on each sequentially, then
// scans busy couriers and clears any busy flag with no open delivery behind
// it. One failed order never aborts the rest of the pass.
type SweepCommandHandler struct {
	uowFactory    UoWFactory
	assignHandler AssignOrderCommandHandler
	batchSize     int
	logger        *slog.Logger
}

// NewSweepCommandHandler creates a handler for reconciliation passes.
// A non-positive batchSize falls back to DefaultSweepBatchSize.
func NewSweepCommandHandler(
	uowFactory UoWFactory,
	assignHandler AssignOrderCommandHandler,
	batchSize int,
	logger *slog.Logger,
) SweepCommandHandler {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}

	return SweepCommandHandler{
		uowFactory:    uowFactory,
		assignHandler: assignHandler,
		batchSize:     batchSize,
		logger:        logger.With("component", "reconciliation_sweep"),
	}
}

// Handle runs one pass and reports what it did. The returned error covers
// infrastructure failures of the pass itself; per-order assignment errors are
// counted in the report instead.
func (h SweepCommandHandler) Handle(ctx context.Context, command SweepCommand) (SweepReport, error) {
	if err := command.Validate(); err != nil {
		return SweepReport{}, err
	}

	report := SweepReport{}

	waiting, err := h.fetchWaitingOrders(ctx)
	if err != nil {
		return report, err
	}
	report.OrdersExamined = len(waiting)

	for _, o := range waiting {
		h.assignOne(ctx, o, &report)
	}

	healed, err := h.healStuckCouriers(ctx)
	if err != nil {
		return report, err
	}
	report.CouriersHealed = healed

	h.logger.InfoContext(ctx, "sweep pass finished",
		"examined", report.OrdersExamined,
		"assigned", report.Assigned,
		"skipped", report.Skipped,
		"noCourier", report.NoCourierAvailable,
		"failed", report.Failed,
		"healed", report.CouriersHealed)
	return report, nil
}

// fetchWaitingOrders loads up to batchSize ReadyForPickup orders without a
// courier, oldest first.
func (h SweepCommandHandler) fetchWaitingOrders(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllReadyUnassigned(ctx, h.batchSize)
}

// assignOne runs one assignment attempt and folds the outcome into the report.
func (h SweepCommandHandler) assignOne(ctx context.Context, o *order.Order, report *SweepReport) {
	cmd, err := NewAssignOrderCommand(o.ID())
	if err != nil {
		report.Failed++
		h.logger.WarnContext(ctx, "sweep skipped order", "order", o.Number(), "error", err)
		return
	}

	result, err := h.assignHandler.Handle(ctx, cmd)
	if err != nil {
		report.Failed++
		h.logger.WarnContext(ctx, "sweep assignment failed", "order", o.Number(), "error", err)
		return
	}

	switch result {
	case ResultAssigned:
		report.Assigned++
	case ResultSkipped:
		report.Skipped++
	case ResultNoCourierAvailable:
		report.NoCourierAvailable++
	}
}

// healStuckCouriers clears the busy flag of every courier that has no open
// delivery behind it. Stuck flags appear when a process dies between claiming
// a courier and completing or cancelling the delivery.
func (h SweepCommandHandler) healStuckCouriers(ctx context.Context) (int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriersRepo := uow.CourierRepository()
	deliveriesRepo := uow.DeliveryRepository()

	busy, err := couriersRepo.GetAllBusy(ctx)
	if err != nil {
		return 0, err
	}

	healed := 0
	for _, c := range busy {
		stuck, checkErr := h.isStuck(ctx, deliveriesRepo, c)
		if checkErr != nil {
			return 0, checkErr
		}
		if !stuck {
			continue
		}

		if err = c.Release(); err != nil {
			return 0, err
		}
		if err = couriersRepo.Update(ctx, c); err != nil {
			return 0, err
		}

		healed++
		h.logger.InfoContext(ctx, "healed stuck courier", "courier", c.ID().String())
	}

	if healed == 0 {
		return 0, nil
	}
	return healed, uow.Commit(ctx)
}

// isStuck reports whether a busy courier has no open delivery backing the flag.
func (h SweepCommandHandler) isStuck(
	ctx context.Context, deliveries ports.DeliveryRepository, c *courier.Courier,
) (bool, error) {
	_, err := deliveries.GetOpenByCourier(ctx, c.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
