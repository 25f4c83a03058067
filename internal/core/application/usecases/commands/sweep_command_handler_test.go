package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStuckCourier(t *testing.T) *courier.Courier {
	t.Helper()

	orderID := kernel.NewUUID()
	c, err := courier.RestoreCourier(kernel.NewUUID(), "Stuck", true, true, nil, &orderID)
	require.NoError(t, err)
	return c
}

func TestSweepCommandHandler_Handle_FullPass(t *testing.T) {
	ctx := t.Context()

	o1 := newReadyOrder(t)
	o2 := newReadyOrder(t)
	c := newAvailableCourier(t, "Asha")
	stuck := newStuckCourier(t)

	// Fetch transaction returns the waiting queue oldest first.
	fetchOrderRepo := new(MockOrderRepository)
	fetchUoW := new(MockUoW)

	mock.InOrder(
		fetchUoW.On("Begin", ctx).Return(nil).Once(),
		fetchUoW.On("OrderRepository").Return(fetchOrderRepo).Once(),
		fetchOrderRepo.On("GetAllReadyUnassigned", ctx, 2).Return([]*order.Order{o1, o2}, nil).Once(),
		fetchUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	// First assignment attempt succeeds.
	assignOrderRepoA := new(MockOrderRepository)
	assignCourierRepoA := new(MockCourierRepository)
	assignDeliveryRepoA := new(MockDeliveryRepository)
	assignUoWA := new(MockUoW)

	mock.InOrder(
		assignUoWA.On("Begin", ctx).Return(nil).Once(),
		assignUoWA.On("OrderRepository").Return(assignOrderRepoA).Once(),
		assignUoWA.On("CourierRepository").Return(assignCourierRepoA).Once(),
		assignUoWA.On("DeliveryRepository").Return(assignDeliveryRepoA).Once(),
		assignOrderRepoA.On("Get", ctx, o1.ID()).Return(o1, nil).Once(),
		assignCourierRepoA.On("GetAllAvailable", ctx).Return([]*courier.Courier{c}, nil).Once(),
		assignOrderRepoA.On("AssignIfReady", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		assignCourierRepoA.On("ClaimIfFree", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		assignDeliveryRepoA.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		assignUoWA.On("Commit", ctx).Return(nil).Once(),
		assignUoWA.On("Rollback", ctx).Return(nil).Once(),
	)

	// Second attempt finds nobody free anymore.
	assignOrderRepoB := new(MockOrderRepository)
	assignCourierRepoB := new(MockCourierRepository)
	assignDeliveryRepoB := new(MockDeliveryRepository)
	assignUoWB := new(MockUoW)

	mock.InOrder(
		assignUoWB.On("Begin", ctx).Return(nil).Once(),
		assignUoWB.On("OrderRepository").Return(assignOrderRepoB).Once(),
		assignUoWB.On("CourierRepository").Return(assignCourierRepoB).Once(),
		assignUoWB.On("DeliveryRepository").Return(assignDeliveryRepoB).Once(),
		assignOrderRepoB.On("Get", ctx, o2.ID()).Return(o2, nil).Once(),
		assignCourierRepoB.On("GetAllAvailable", ctx).Return([]*courier.Courier{}, nil).Once(),
		assignUoWB.On("Rollback", ctx).Return(nil).Once(),
	)

	assignFactory := new(MockUoWFactory)
	assignFactory.On("Create").Return(assignUoWA).Once()
	assignFactory.On("Create").Return(assignUoWB).Once()

	notifier := new(MockNotificationDispatcher)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Twice()

	// Self-heal transaction clears the stuck busy flag.
	healCourierRepo := new(MockCourierRepository)
	healDeliveryRepo := new(MockDeliveryRepository)
	healUoW := new(MockUoW)

	mock.InOrder(
		healUoW.On("Begin", ctx).Return(nil).Once(),
		healUoW.On("CourierRepository").Return(healCourierRepo).Once(),
		healUoW.On("DeliveryRepository").Return(healDeliveryRepo).Once(),
		healCourierRepo.On("GetAllBusy", ctx).Return([]*courier.Courier{stuck}, nil).Once(),
		healDeliveryRepo.On("GetOpenByCourier", ctx, stuck.ID()).
			Return(nil, errs.NewObjectNotFoundError("delivery", stuck.ID().String())).Once(),
		healCourierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		healUoW.On("Commit", ctx).Return(nil).Once(),
		healUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	sweepFactory := new(MockUoWFactory)
	sweepFactory.On("Create").Return(fetchUoW).Once()
	sweepFactory.On("Create").Return(healUoW).Once()

	handler := commands.NewSweepCommandHandler(
		sweepFactory, newAssignHandler(assignFactory, notifier), 2, discardLogger())
	cmd, err := commands.NewSweepCommand()
	require.NoError(t, err)

	report, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, report.OrdersExamined)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 1, report.NoCourierAvailable)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.CouriersHealed)

	assert.Equal(t, order.StatusAssigned, o1.Status())
	assert.Equal(t, order.StatusReadyForPickup, o2.Status())
	assert.False(t, stuck.IsBusy())

	fetchUoW.AssertExpectations(t)
	assignUoWA.AssertExpectations(t)
	assignUoWB.AssertExpectations(t)
	healUoW.AssertExpectations(t)
	sweepFactory.AssertExpectations(t)
}

func TestSweepCommandHandler_Handle_OneFailureDoesNotAbortThePass(t *testing.T) {
	ctx := t.Context()

	o1 := newReadyOrder(t)
	o2 := newReadyOrder(t)
	c := newAvailableCourier(t, "Asha")

	fetchOrderRepo := new(MockOrderRepository)
	fetchUoW := new(MockUoW)

	mock.InOrder(
		fetchUoW.On("Begin", ctx).Return(nil).Once(),
		fetchUoW.On("OrderRepository").Return(fetchOrderRepo).Once(),
		fetchOrderRepo.On("GetAllReadyUnassigned", ctx, 50).Return([]*order.Order{o1, o2}, nil).Once(),
		fetchUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	// First attempt fails on infrastructure.
	assignOrderRepoA := new(MockOrderRepository)
	assignCourierRepoA := new(MockCourierRepository)
	assignDeliveryRepoA := new(MockDeliveryRepository)
	assignUoWA := new(MockUoW)

	mock.InOrder(
		assignUoWA.On("Begin", ctx).Return(nil).Once(),
		assignUoWA.On("OrderRepository").Return(assignOrderRepoA).Once(),
		assignUoWA.On("CourierRepository").Return(assignCourierRepoA).Once(),
		assignUoWA.On("DeliveryRepository").Return(assignDeliveryRepoA).Once(),
		assignOrderRepoA.On("Get", ctx, o1.ID()).Return(nil, errors.New("database error")).Once(),
		assignUoWA.On("Rollback", ctx).Return(nil).Once(),
	)

	// Second attempt still runs and succeeds.
	assignOrderRepoB := new(MockOrderRepository)
	assignCourierRepoB := new(MockCourierRepository)
	assignDeliveryRepoB := new(MockDeliveryRepository)
	assignUoWB := new(MockUoW)

	mock.InOrder(
		assignUoWB.On("Begin", ctx).Return(nil).Once(),
		assignUoWB.On("OrderRepository").Return(assignOrderRepoB).Once(),
		assignUoWB.On("CourierRepository").Return(assignCourierRepoB).Once(),
		assignUoWB.On("DeliveryRepository").Return(assignDeliveryRepoB).Once(),
		assignOrderRepoB.On("Get", ctx, o2.ID()).Return(o2, nil).Once(),
		assignCourierRepoB.On("GetAllAvailable", ctx).Return([]*courier.Courier{c}, nil).Once(),
		assignOrderRepoB.On("AssignIfReady", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		assignCourierRepoB.On("ClaimIfFree", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		assignDeliveryRepoB.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		assignUoWB.On("Commit", ctx).Return(nil).Once(),
		assignUoWB.On("Rollback", ctx).Return(nil).Once(),
	)

	assignFactory := new(MockUoWFactory)
	assignFactory.On("Create").Return(assignUoWA).Once()
	assignFactory.On("Create").Return(assignUoWB).Once()

	notifier := new(MockNotificationDispatcher)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Twice()

	// Nothing to heal: the pass ends without a commit on the heal transaction.
	healCourierRepo := new(MockCourierRepository)
	healDeliveryRepo := new(MockDeliveryRepository)
	healUoW := new(MockUoW)

	mock.InOrder(
		healUoW.On("Begin", ctx).Return(nil).Once(),
		healUoW.On("CourierRepository").Return(healCourierRepo).Once(),
		healUoW.On("DeliveryRepository").Return(healDeliveryRepo).Once(),
		healCourierRepo.On("GetAllBusy", ctx).Return([]*courier.Courier{}, nil).Once(),
		healUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	sweepFactory := new(MockUoWFactory)
	sweepFactory.On("Create").Return(fetchUoW).Once()
	sweepFactory.On("Create").Return(healUoW).Once()

	// Batch size zero falls back to the default.
	handler := commands.NewSweepCommandHandler(
		sweepFactory, newAssignHandler(assignFactory, notifier), 0, discardLogger())
	cmd, err := commands.NewSweepCommand()
	require.NoError(t, err)

	report, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, report.OrdersExamined)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.CouriersHealed)
	healUoW.AssertNotCalled(t, "Commit")
}

func TestSweepCommandHandler_Handle_EmptyQueue(t *testing.T) {
	ctx := t.Context()

	fetchOrderRepo := new(MockOrderRepository)
	fetchUoW := new(MockUoW)

	mock.InOrder(
		fetchUoW.On("Begin", ctx).Return(nil).Once(),
		fetchUoW.On("OrderRepository").Return(fetchOrderRepo).Once(),
		fetchOrderRepo.On("GetAllReadyUnassigned", ctx, 50).Return([]*order.Order{}, nil).Once(),
		fetchUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	healCourierRepo := new(MockCourierRepository)
	healDeliveryRepo := new(MockDeliveryRepository)
	healUoW := new(MockUoW)

	mock.InOrder(
		healUoW.On("Begin", ctx).Return(nil).Once(),
		healUoW.On("CourierRepository").Return(healCourierRepo).Once(),
		healUoW.On("DeliveryRepository").Return(healDeliveryRepo).Once(),
		healCourierRepo.On("GetAllBusy", ctx).Return([]*courier.Courier{}, nil).Once(),
		healUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	sweepFactory := new(MockUoWFactory)
	sweepFactory.On("Create").Return(fetchUoW).Once()
	sweepFactory.On("Create").Return(healUoW).Once()

	handler := commands.NewSweepCommandHandler(
		sweepFactory, newAssignHandler(new(MockUoWFactory), new(MockNotificationDispatcher)),
		commands.DefaultSweepBatchSize, discardLogger())
	cmd, err := commands.NewSweepCommand()
	require.NoError(t, err)

	report, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, report.OrdersExamined)
	assert.Zero(t, report.Assigned)
}

func TestSweepCommandHandler_Handle_BusyCourierWithOpenDeliveryIsLeftAlone(t *testing.T) {
	ctx := t.Context()

	busy := newStuckCourier(t) // busy, but this time a delivery backs the flag
	d := newPendingDelivery(t, kernel.NewUUID(), busy.ID())

	fetchOrderRepo := new(MockOrderRepository)
	fetchUoW := new(MockUoW)

	mock.InOrder(
		fetchUoW.On("Begin", ctx).Return(nil).Once(),
		fetchUoW.On("OrderRepository").Return(fetchOrderRepo).Once(),
		fetchOrderRepo.On("GetAllReadyUnassigned", ctx, 50).Return([]*order.Order{}, nil).Once(),
		fetchUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	healCourierRepo := new(MockCourierRepository)
	healDeliveryRepo := new(MockDeliveryRepository)
	healUoW := new(MockUoW)

	mock.InOrder(
		healUoW.On("Begin", ctx).Return(nil).Once(),
		healUoW.On("CourierRepository").Return(healCourierRepo).Once(),
		healUoW.On("DeliveryRepository").Return(healDeliveryRepo).Once(),
		healCourierRepo.On("GetAllBusy", ctx).Return([]*courier.Courier{busy}, nil).Once(),
		healDeliveryRepo.On("GetOpenByCourier", ctx, busy.ID()).Return(d, nil).Once(),
		healUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	sweepFactory := new(MockUoWFactory)
	sweepFactory.On("Create").Return(fetchUoW).Once()
	sweepFactory.On("Create").Return(healUoW).Once()

	handler := commands.NewSweepCommandHandler(
		sweepFactory, newAssignHandler(new(MockUoWFactory), new(MockNotificationDispatcher)),
		commands.DefaultSweepBatchSize, discardLogger())
	cmd, err := commands.NewSweepCommand()
	require.NoError(t, err)

	report, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, report.CouriersHealed)
	assert.True(t, busy.IsBusy())
	healCourierRepo.AssertNotCalled(t, "Update")
	healUoW.AssertNotCalled(t, "Commit")
}

func TestSweepCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.SweepCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewSweepCommandHandler(
		factory, newAssignHandler(new(MockUoWFactory), new(MockNotificationDispatcher)),
		commands.DefaultSweepBatchSize, discardLogger())

	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrSweepCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
