package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T) *order.Order {
	t.Helper()

	pickup, err := kernel.NewGeoPoint(12.90, 77.58)
	require.NoError(t, err)
	dropoff, err := kernel.NewGeoPoint(12.95, 77.61)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-1042",
		kernel.NewUUID(),
		order.CashOnDelivery,
		4990,
		"12 MG Road",
		"4 Lake View",
		&pickup,
		&dropoff,
		[]string{"rsv-1", "rsv-2"},
	)
	require.NoError(t, err)
	return o
}

// createReadyOrder walks a fresh order to ReadyForPickup.
func createReadyOrder(t *testing.T) *order.Order {
	t.Helper()

	o := createOrder(t)
	require.NoError(t, o.Accept("seller"))
	require.NoError(t, o.StartProcessing("seller"))
	require.NoError(t, o.MarkReadyForPickup("seller"))
	return o
}

func createAssignedOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()

	o := createReadyOrder(t)
	require.NoError(t, o.Assign(courierID, "system", "matched at 1.2 km"))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates a pending order with initial history", func(t *testing.T) {
		o := createOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, order.CashOnDelivery, o.PaymentMethod())
		assert.Equal(t, "ORD-1042", o.Number())
		assert.Equal(t, int64(4990), o.Fee())
		assert.Nil(t, o.Courier())
		assert.Nil(t, o.ReadySince())
		assert.Equal(t, []string{"rsv-1", "rsv-2"}, o.ReservedItems())

		history := o.History()
		require.Len(t, history, 1)
		assert.Equal(t, order.StatusPending, history[0].Status)
		assert.Equal(t, "customer", history[0].Actor)
	})

	t.Run("allows nil coordinates", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "ORD-1", kernel.NewUUID(),
			order.Prepaid, 0, "store", "home", nil, nil, nil)

		require.NoError(t, err)
		assert.Nil(t, o.Pickup())
		assert.Nil(t, o.Dropoff())
	})

	t.Run("fails on missing required fields", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.UUID{}, "", kernel.UUID{},
			order.PaymentMethodUnknown, 0, "", "", nil, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrNumberIsRequired)
		assert.ErrorIs(t, err, order.ErrPickupAddressIsRequired)
		assert.ErrorIs(t, err, order.ErrDropoffAddressIsRequired)
	})

	t.Run("fails on invalid coordinates", func(t *testing.T) {
		var broken kernel.GeoPoint
		_, err := order.NewOrder(
			kernel.NewUUID(), "ORD-1", kernel.NewUUID(),
			order.Prepaid, 0, "store", "home", &broken, nil, nil)

		require.Error(t, err)
	})
}

func TestOrderValidate(t *testing.T) {
	t.Run("nil order fails", func(t *testing.T) {
		var o *order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("zero value fails", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrderMarkReadyForPickup(t *testing.T) {
	o := createOrder(t)
	require.NoError(t, o.Accept("seller"))
	require.NoError(t, o.StartProcessing("seller"))

	before := time.Now().UTC()
	require.NoError(t, o.MarkReadyForPickup("seller"))

	assert.Equal(t, order.StatusReadyForPickup, o.Status())
	require.NotNil(t, o.ReadySince())
	assert.False(t, o.ReadySince().Before(before))
	assert.Positive(t, o.WaitedFor(time.Now().UTC().Add(time.Second)))
}

func TestOrderWaitedFor(t *testing.T) {
	t.Run("zero before the order is ready", func(t *testing.T) {
		o := createOrder(t)
		assert.Zero(t, o.WaitedFor(time.Now()))
	})

	t.Run("measures from readySince", func(t *testing.T) {
		o := createReadyOrder(t)
		at := o.ReadySince().Add(90 * time.Second)
		assert.Equal(t, 90*time.Second, o.WaitedFor(at))
	})
}

func TestOrderAssign(t *testing.T) {
	t.Run("binds the courier and records the note", func(t *testing.T) {
		courierID := kernel.NewUUID()
		o := createAssignedOrder(t, courierID)

		assert.Equal(t, order.StatusAssigned, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, courierID.IsEqual(*o.Courier()))

		history := o.History()
		last := history[len(history)-1]
		assert.Equal(t, order.StatusAssigned, last.Status)
		assert.Equal(t, "matched at 1.2 km", last.Note)
	})

	t.Run("fails when the order is not ready", func(t *testing.T) {
		o := createOrder(t)
		err := o.Assign(kernel.NewUUID(), "system", "")

		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.Nil(t, o.Courier())
	})

	t.Run("fails on invalid courier ID", func(t *testing.T) {
		o := createReadyOrder(t)
		err := o.Assign(kernel.UUID{}, "system", "")

		require.Error(t, err)
		assert.Equal(t, order.StatusReadyForPickup, o.Status())
	})
}

func TestOrderUnassign(t *testing.T) {
	t.Run("returns an assigned order to the ready queue", func(t *testing.T) {
		o := createAssignedOrder(t, kernel.NewUUID())
		readySince := o.ReadySince()

		require.NoError(t, o.Unassign("courier", "assignment rejected by courier"))

		assert.Equal(t, order.StatusReadyForPickup, o.Status())
		assert.Nil(t, o.Courier())
		assert.Equal(t, readySince, o.ReadySince())

		history := o.History()
		last := history[len(history)-1]
		assert.Equal(t, order.StatusReadyForPickup, last.Status)
		assert.Equal(t, "assignment rejected by courier", last.Note)
	})

	t.Run("fails outside the Assigned status", func(t *testing.T) {
		o := createReadyOrder(t)
		err := o.Unassign("courier", "")

		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})
}

func TestOrderDeliveryProgression(t *testing.T) {
	t.Run("picked up, on the way, delivered", func(t *testing.T) {
		o := createAssignedOrder(t, kernel.NewUUID())

		require.NoError(t, o.MarkPickedUp("courier"))
		require.NoError(t, o.MarkOnTheWay("courier"))
		require.NoError(t, o.MarkDelivered("courier"))

		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.NotNil(t, o.Courier())
	})

	t.Run("delivered straight from picked up", func(t *testing.T) {
		o := createAssignedOrder(t, kernel.NewUUID())

		require.NoError(t, o.MarkPickedUp("courier"))
		require.NoError(t, o.MarkDelivered("courier"))

		assert.Equal(t, order.StatusDelivered, o.Status())
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("cancels and clears the courier", func(t *testing.T) {
		o := createAssignedOrder(t, kernel.NewUUID())

		require.NoError(t, o.Cancel("seller", "store closed"))

		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Nil(t, o.Courier())

		history := o.History()
		assert.Equal(t, "store closed", history[len(history)-1].Note)
	})

	t.Run("cancels a pending order", func(t *testing.T) {
		o := createOrder(t)
		require.NoError(t, o.Cancel("customer", "changed my mind"))
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("fails on a terminal order", func(t *testing.T) {
		o := createOrder(t)
		require.NoError(t, o.Cancel("customer", ""))

		err := o.Cancel("customer", "again")
		assert.ErrorIs(t, err, order.ErrOrderIsTerminal)
	})
}

func TestOrderRejectBySeller(t *testing.T) {
	o := createOrder(t)

	require.NoError(t, o.Reject("seller", "out of stock"))

	assert.Equal(t, order.StatusRejected, o.Status())
	assert.True(t, o.Status().IsTerminal())
}

func TestOrderPayment(t *testing.T) {
	t.Run("CompletePayment settles the payment", func(t *testing.T) {
		o := createOrder(t)
		require.NoError(t, o.CompletePayment())
		assert.Equal(t, order.PaymentCompleted, o.PaymentStatus())
	})

	t.Run("FailPayment records a failed capture", func(t *testing.T) {
		o := createOrder(t)
		require.NoError(t, o.FailPayment())
		assert.Equal(t, order.PaymentFailed, o.PaymentStatus())
	})

	t.Run("RefundPayment requires a completed payment", func(t *testing.T) {
		o := createOrder(t)

		err := o.RefundPayment()
		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)

		require.NoError(t, o.CompletePayment())
		require.NoError(t, o.RefundPayment())
		assert.Equal(t, order.PaymentRefunded, o.PaymentStatus())
	})
}

func TestOrderHistoryIsAppendOnly(t *testing.T) {
	o := createReadyOrder(t)

	history := o.History()
	require.Len(t, history, 4)

	// Mutating the returned slice must not affect the aggregate.
	history[0].Note = "tampered"
	assert.NotEqual(t, "tampered", o.History()[0].Note)
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores a persisted order", func(t *testing.T) {
		id := kernel.NewUUID()
		courierID := kernel.NewUUID()
		readySince := time.Now().UTC().Add(-2 * time.Minute)
		history := []order.HistoryEntry{
			{Status: order.StatusPending, At: readySince.Add(-time.Hour), Actor: "customer"},
			{Status: order.StatusAssigned, At: readySince, Actor: "system", Note: "matched"},
		}

		o, err := order.RestoreOrder(
			id, "ORD-7", kernel.NewUUID(),
			order.StatusAssigned, order.Prepaid, order.PaymentCompleted,
			2500, "store", "home", nil, nil,
			&courierID, []string{"rsv-9"}, &readySince, history)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusAssigned, o.Status())
		assert.True(t, courierID.IsEqual(*o.Courier()))
		assert.Equal(t, &readySince, o.ReadySince())
		assert.Len(t, o.History(), 2)
	})

	t.Run("fails when a courier-bearing status has no courier", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-7", kernel.NewUUID(),
			order.StatusAssigned, order.Prepaid, order.PaymentPending,
			0, "store", "home", nil, nil,
			nil, nil, nil, nil)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("fails when a courier is set on a courier-free status", func(t *testing.T) {
		courierID := kernel.NewUUID()
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-7", kernel.NewUUID(),
			order.StatusPending, order.Prepaid, order.PaymentPending,
			0, "store", "home", nil, nil,
			&courierID, nil, nil, nil)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
