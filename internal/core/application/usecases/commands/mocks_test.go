package commands_test

import (
	"context"
	"log/slog"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignIfReady(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllBusy(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) ClaimIfFree(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetOpenByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetOpenByCourier(ctx context.Context, courierID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotificationDispatcher struct{ mock.Mock }

func (m *MockNotificationDispatcher) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockInventoryReleaser struct{ mock.Mock }

func (m *MockInventoryReleaser) ReleaseReservedStock(ctx context.Context, reservationIDs []string) error {
	args := m.Called(ctx, reservationIDs)
	return args.Error(0)
}

// Fixture helpers shared by the handler tests.

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newReadyOrder builds an order in ReadyForPickup with a pickup at the origin.
func newReadyOrder(t *testing.T) *order.Order {
	t.Helper()

	pickup, err := kernel.NewGeoPoint(0, 0)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), "ORD-1042", kernel.NewUUID(),
		order.CashOnDelivery, 4990, "12 MG Road", "4 Lake View",
		&pickup, nil, []string{"rsv-1"})
	require.NoError(t, err)

	require.NoError(t, o.Accept("seller"))
	require.NoError(t, o.StartProcessing("seller"))
	require.NoError(t, o.MarkReadyForPickup("seller"))
	return o
}

// newProcessingOrder builds an order still being prepared by the seller.
func newProcessingOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(), "ORD-1042", kernel.NewUUID(),
		order.Prepaid, 4990, "12 MG Road", "4 Lake View",
		nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, o.Accept("seller"))
	require.NoError(t, o.StartProcessing("seller"))
	return o
}

// newAvailableCourier builds an online free courier near the origin.
func newAvailableCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, c.GoOnline())

	location, err := kernel.NewGeoPoint(0, 0.01)
	require.NoError(t, err)
	require.NoError(t, c.MoveTo(location))
	return c
}

// newPendingDelivery builds a freshly created delivery for the given pair.
func newPendingDelivery(t *testing.T, orderID, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), orderID, courierID,
		"12 MG Road", "4 Lake View", 4990, nil)
	require.NoError(t, err)
	return d
}

// assignScenario wires an assignment coordinator whose mocks replay a full
// successful attempt for the given order and courier.
type assignScenario struct {
	orderRepo    *MockOrderRepository
	courierRepo  *MockCourierRepository
	deliveryRepo *MockDeliveryRepository
	uow          *MockUoW
	factory      *MockUoWFactory
	notifier     *MockNotificationDispatcher
	handler      commands.AssignOrderCommandHandler
}

func newSuccessfulAssignScenario(t *testing.T, ctx context.Context, o *order.Order, c *courier.Courier) *assignScenario {
	t.Helper()

	s := &assignScenario{
		orderRepo:    new(MockOrderRepository),
		courierRepo:  new(MockCourierRepository),
		deliveryRepo: new(MockDeliveryRepository),
		uow:          new(MockUoW),
		factory:      new(MockUoWFactory),
		notifier:     new(MockNotificationDispatcher),
	}

	mock.InOrder(
		s.uow.On("Begin", ctx).Return(nil).Once(),
		s.uow.On("OrderRepository").Return(s.orderRepo).Once(),
		s.uow.On("CourierRepository").Return(s.courierRepo).Once(),
		s.uow.On("DeliveryRepository").Return(s.deliveryRepo).Once(),
		s.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		s.courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{c}, nil).Once(),
		s.orderRepo.On("AssignIfReady", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		s.courierRepo.On("ClaimIfFree", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		s.deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		s.uow.On("Commit", ctx).Return(nil).Once(),
		s.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	s.factory.On("Create").Return(s.uow).Once()
	s.notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Twice()

	matcher := services.NewProximityMatcher(services.DefaultMatcherPolicy())
	s.handler = commands.NewAssignOrderCommandHandler(s.factory, matcher, s.notifier, discardLogger())
	return s
}

func (s *assignScenario) assertExpectations(t *testing.T) {
	t.Helper()

	s.orderRepo.AssertExpectations(t)
	s.courierRepo.AssertExpectations(t)
	s.deliveryRepo.AssertExpectations(t)
	s.uow.AssertExpectations(t)
	s.factory.AssertExpectations(t)
	s.notifier.AssertExpectations(t)
}
