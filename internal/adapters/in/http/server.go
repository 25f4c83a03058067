// Package http provides the inbound HTTP adapter. It translates REST
// requests into commands and queries and maps the error taxonomy onto
// HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	markReadyHandler      commands.MarkReadyForPickupCommandHandler
	cancelOrderHandler    commands.CancelOrderCommandHandler
	settlementHandler     commands.RecordCashSettlementCommandHandler
	toggleOnlineHandler   commands.ToggleCourierOnlineCommandHandler
	rejectHandler         commands.RejectAssignmentCommandHandler
	deliveryStatusHandler commands.UpdateDeliveryStatusCommandHandler
	sweepHandler          commands.SweepCommandHandler

	// Query handlers
	unassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler
	activeDeliveriesHandler queries.GetActiveDeliveriesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	markReadyHandler commands.MarkReadyForPickupCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	settlementHandler commands.RecordCashSettlementCommandHandler,
	toggleOnlineHandler commands.ToggleCourierOnlineCommandHandler,
	rejectHandler commands.RejectAssignmentCommandHandler,
	deliveryStatusHandler commands.UpdateDeliveryStatusCommandHandler,
	sweepHandler commands.SweepCommandHandler,
	unassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler,
	activeDeliveriesHandler queries.GetActiveDeliveriesQueryHandler,
) *Server {
	return &Server{
		markReadyHandler:        markReadyHandler,
		cancelOrderHandler:      cancelOrderHandler,
		settlementHandler:       settlementHandler,
		toggleOnlineHandler:     toggleOnlineHandler,
		rejectHandler:           rejectHandler,
		deliveryStatusHandler:   deliveryStatusHandler,
		sweepHandler:            sweepHandler,
		unassignedOrdersHandler: unassignedOrdersHandler,
		activeDeliveriesHandler: activeDeliveriesHandler,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders/:id/ready", s.MarkOrderReady)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/settlement", s.RecordSettlement)
	api.GET("/orders/unassigned", s.GetUnassignedOrders)
	api.POST("/couriers/:id/availability", s.SetCourierAvailability)
	api.POST("/deliveries/:id/reject", s.RejectDelivery)
	api.PATCH("/deliveries/:id/status", s.UpdateDeliveryStatus)
	api.GET("/deliveries/active", s.GetActiveDeliveries)
	api.POST("/admin/sweep", s.RunSweep)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// MarkOrderReady handles POST /api/v1/orders/:id/ready.
// Marks the order ready for pickup and runs one assignment attempt.
func (s *Server) MarkOrderReady(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	cmd, err := commands.NewMarkReadyForPickupCommand(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markReadyHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"assignment": result.String(),
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(id, body.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordSettlement handles POST /api/v1/orders/:id/settlement.
// Records cash reconciliation for a cash-on-delivery order.
func (s *Server) RecordSettlement(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	cmd, err := commands.NewRecordCashSettlementCommand(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.settlementHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetCourierAvailability handles POST /api/v1/couriers/:id/availability.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier ID")
	}

	var body struct {
		Online *bool `json:"online"`
	}
	if err = ctx.Bind(&body); err != nil || body.Online == nil {
		return badRequest(ctx, "Request body must carry an online flag")
	}

	cmd, err := commands.NewToggleCourierOnlineCommand(id, *body.Online)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.toggleOnlineHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectDelivery handles POST /api/v1/deliveries/:id/reject.
func (s *Server) RejectDelivery(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid delivery ID")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRejectAssignmentCommand(id, body.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.rejectHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDeliveryStatus handles PATCH /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid delivery ID")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := delivery.StatusFromString(body.Status)
	if err != nil {
		return badRequest(ctx, "Unknown delivery status: "+body.Status)
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(id, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.deliveryStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RunSweep handles POST /api/v1/admin/sweep - forces one reconciliation pass.
func (s *Server) RunSweep(ctx echo.Context) error {
	cmd, err := commands.NewSweepCommand()
	if err != nil {
		return mapError(ctx, err)
	}

	report, err := s.sweepHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]int{
		"ordersExamined":     report.OrdersExamined,
		"assigned":           report.Assigned,
		"skipped":            report.Skipped,
		"noCourierAvailable": report.NoCourierAvailable,
		"failed":             report.Failed,
		"couriersHealed":     report.CouriersHealed,
	})
}

// GetUnassignedOrders handles GET /api/v1/orders/unassigned.
func (s *Server) GetUnassignedOrders(ctx echo.Context) error {
	query := queries.NewGetUnassignedOrdersQuery()

	orders, err := s.unassignedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	type orderView struct {
		ID            string     `json:"id"`
		Number        string     `json:"number"`
		PickupAddress string     `json:"pickupAddress"`
		ReadySince    *time.Time `json:"readySince,omitempty"`
	}

	response := make([]orderView, len(orders))
	for i, o := range orders {
		response[i] = orderView{
			ID:            o.ID.String(),
			Number:        o.Number,
			PickupAddress: o.PickupAddress,
			ReadySince:    o.ReadySince,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	query := queries.NewGetActiveDeliveriesQuery()

	deliveries, err := s.activeDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	type deliveryView struct {
		ID             string     `json:"id"`
		OrderID        string     `json:"orderId"`
		CourierID      string     `json:"courierId"`
		Status         string     `json:"status"`
		DropoffAddress string     `json:"dropoffAddress"`
		EstimatedAt    *time.Time `json:"estimatedAt,omitempty"`
	}

	response := make([]deliveryView, len(deliveries))
	for i, d := range deliveries {
		response[i] = deliveryView{
			ID:             d.ID.String(),
			OrderID:        d.OrderID.String(),
			CourierID:      d.CourierID.String(),
			Status:         d.Status,
			DropoffAddress: d.DropoffAddress,
			EstimatedAt:    d.EstimatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// parseID extracts the :id path parameter as a UUID.
func parseID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// badRequest responds with a 400 and the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// mapError translates the error taxonomy onto HTTP status codes: missing
// objects map to 404, forbidden lifecycle moves to 409, unsettled cash to
// 422, validation failures to 400 and everything else to 500.
func mapError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidStateTransition):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrSettlementRequired):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
