package cmd

import (
	"log/slog"
	"time"

	"dispatch/internal/adapters/out/inventory"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into command and query handlers.
// All handler factories share one unit of work factory, one matcher policy
// and the log-backed outbound adapters.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	matcher    services.ProximityMatcher
	notifier   ports.NotificationDispatcher
	releaser   ports.InventoryReleaser
	logger     *slog.Logger
}

// NewCompositionRoot builds the object graph from the configuration and
// database connection.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	policy := services.DefaultMatcherPolicy()
	if config.AssignPrimaryRadiusKm > 0 {
		policy.PrimaryRadiusKm = config.AssignPrimaryRadiusKm
	}
	if config.AssignSecondaryRadiusKm > 0 {
		policy.SecondaryRadiusKm = config.AssignSecondaryRadiusKm
	}
	if config.AssignWidenAfterSeconds > 0 {
		policy.WidenAfter = time.Duration(config.AssignWidenAfterSeconds) * time.Second
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		matcher:    services.NewProximityMatcher(policy),
		notifier:   notify.NewSlogNotificationDispatcher(logger),
		releaser:   inventory.NewSlogInventoryReleaser(logger),
		logger:     logger,
	}
}

// CreateAssignOrderCommandHandler builds the assignment coordinator.
func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.createUoWFactory(), c.matcher, c.notifier, c.logger)
}

// CreateMarkReadyForPickupCommandHandler builds the mark-ready handler with
// its inline assignment attempt.
func (c *CompositionRoot) CreateMarkReadyForPickupCommandHandler() commands.MarkReadyForPickupCommandHandler {
	return commands.NewMarkReadyForPickupCommandHandler(
		c.createOrderUoWFactory(),
		c.CreateAssignOrderCommandHandler(),
	)
}

// CreateToggleCourierOnlineCommandHandler builds the availability handler
// with its event-triggered assignment attempt.
func (c *CompositionRoot) CreateToggleCourierOnlineCommandHandler() commands.ToggleCourierOnlineCommandHandler {
	return commands.NewToggleCourierOnlineCommandHandler(
		c.createUoWFactory(),
		c.CreateAssignOrderCommandHandler(),
		c.logger,
	)
}

// CreateRejectAssignmentCommandHandler builds the rejection handler.
func (c *CompositionRoot) CreateRejectAssignmentCommandHandler() commands.RejectAssignmentCommandHandler {
	return commands.NewRejectAssignmentCommandHandler(
		c.createUoWFactory(),
		c.CreateAssignOrderCommandHandler(),
		c.notifier,
		c.logger,
	)
}

// CreateUpdateDeliveryStatusCommandHandler builds the delivery lifecycle handler.
func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(
		c.createUoWFactory(),
		c.CreateRejectAssignmentCommandHandler(),
		c.notifier,
		c.releaser,
		c.logger,
	)
}

// CreateCancelOrderCommandHandler builds the order cancellation handler.
func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.createUoWFactory(), c.notifier, c.releaser, c.logger)
}

// CreateRecordCashSettlementCommandHandler builds the settlement handler.
func (c *CompositionRoot) CreateRecordCashSettlementCommandHandler() commands.RecordCashSettlementCommandHandler {
	return commands.NewRecordCashSettlementCommandHandler(c.createOrderUoWFactory())
}

// CreateSweepCommandHandler builds the reconciliation pass handler.
func (c *CompositionRoot) CreateSweepCommandHandler() commands.SweepCommandHandler {
	return commands.NewSweepCommandHandler(
		c.createUoWFactory(),
		c.CreateAssignOrderCommandHandler(),
		c.config.SweepBatchSize,
		c.logger,
	)
}

// CreateGetUnassignedOrdersQueryHandler builds the waiting-orders view handler.
func (c *CompositionRoot) CreateGetUnassignedOrdersQueryHandler() queries.GetUnassignedOrdersQueryHandler {
	return queries.NewGetUnassignedOrdersQueryHandler(c.gormDB)
}

// CreateGetActiveDeliveriesQueryHandler builds the live operations view handler.
func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createOrderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// FuncOrderUoWFactory adapts a closure to the commands.OrderUoWFactory interface.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncUoWFactory adapts a closure to the commands.UoWFactory interface.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
