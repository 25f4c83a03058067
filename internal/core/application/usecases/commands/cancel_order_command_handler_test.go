package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_UnassignedOrder(t *testing.T) {
	ctx := t.Context()
	o := newReadyOrder(t)

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetOpenByOrder", ctx, o.ID()).
			Return(nil, errs.NewObjectNotFoundError("delivery", o.ID().String())).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotificationDispatcher)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Once()

	releaser := new(MockInventoryReleaser)
	releaser.On("ReleaseReservedStock", ctx, []string{"rsv-1"}).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, notifier, releaser, discardLogger())
	cmd, err := commands.NewCancelOrderCommand(o.ID(), "store closed")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.StatusCancelled, o.Status())

	history := o.History()
	assert.Equal(t, "store closed", history[len(history)-1].Note)

	uow.AssertExpectations(t)
	releaser.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_CancelsOpenDeliveryAndFreesCourier(t *testing.T) {
	ctx := t.Context()
	f := newRejectFixture(t)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, f.o.ID()).Return(f.o, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetOpenByOrder", ctx, f.o.ID()).Return(f.d, nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, f.c.ID()).Return(f.c, nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotificationDispatcher)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Once()

	releaser := new(MockInventoryReleaser)
	releaser.On("ReleaseReservedStock", ctx, []string{"rsv-1"}).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, notifier, releaser, discardLogger())
	cmd, err := commands.NewCancelOrderCommand(f.o.ID(), "customer asked")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.StatusCancelled, f.o.Status())
	assert.Nil(t, f.o.Courier())
	assert.Equal(t, delivery.StatusCancelled, f.d.Status())
	assert.False(t, f.c.IsBusy())
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_TerminalOrder(t *testing.T) {
	ctx := t.Context()
	o := newReadyOrder(t)
	require.NoError(t, o.Cancel("seller", ""))

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(
		factory, new(MockNotificationDispatcher), new(MockInventoryReleaser), discardLogger())
	cmd, err := commands.NewCancelOrderCommand(o.ID(), "again")
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrOrderIsTerminal)
	uow.AssertNotCalled(t, "Commit")
}

func TestCancelOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).
			Return(nil, errs.NewObjectNotFoundError("order", orderID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(
		factory, new(MockNotificationDispatcher), new(MockInventoryReleaser), discardLogger())
	cmd, err := commands.NewCancelOrderCommand(orderID, "")
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCancelOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CancelOrderCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewCancelOrderCommandHandler(
		factory, new(MockNotificationDispatcher), new(MockInventoryReleaser), discardLogger())

	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
