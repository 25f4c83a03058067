package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// NotificationRole identifies which hat the recipient wears for a notification.
type NotificationRole string

const (
	RoleCustomer NotificationRole = "customer"
	RoleCourier  NotificationRole = "courier"
	RoleSeller   NotificationRole = "seller"
)

// Notification types emitted by the dispatch core.
const (
	NotificationOrderAssigned    = "order_assigned"
	NotificationOrderCancelled   = "order_cancelled"
	NotificationDeliveryRejected = "delivery_rejected"
	NotificationOrderDelivered   = "order_delivered"
)

// Notification is one message for one recipient.
type Notification struct {
	Recipient kernel.UUID
	Role      NotificationRole
	Type      string
	Payload   map[string]any
}

// NotificationDispatcher delivers notifications to customers, couriers and
// sellers. Dispatch is best-effort and fire-and-forget: a returned error is
// logged by the caller and never rolls back the state transition the
// notification was attached to.
type NotificationDispatcher interface {
	Notify(ctx context.Context, notification Notification) error
}
