package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("matches sentinel through errors.Is", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("courierId", "abc")
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("unknown enum value")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: unknown enum value)", err.Error())
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("number")

	assert.Equal(t, "number", err.ParamName)
	assert.Equal(t, "value is required: number", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestValueIsOutOfRangeError(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("lat", 91.0, -90.0, 90.0)

	assert.Equal(t, "lat", err.ParamName)
	assert.Equal(t, 91.0, err.Value)
	assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	assert.Contains(t, err.Error(), "lat")
	assert.Contains(t, err.Error(), "91")
}

func TestInvalidStateTransitionError(t *testing.T) {
	err := errs.NewInvalidStateTransitionError("order", "Pending", "Delivered")

	assert.Equal(t, "order", err.Entity)
	assert.Equal(t, "Pending", err.From)
	assert.Equal(t, "Delivered", err.To)
	assert.Equal(t,
		"invalid state transition: order cannot go from Pending to Delivered",
		err.Error())
	assert.Equal(t, errs.ErrInvalidStateTransition, err.Unwrap())
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func TestSettlementRequiredError(t *testing.T) {
	err := errs.NewSettlementRequiredError("ORD-1042")

	assert.Equal(t, "ORD-1042", err.OrderID)
	assert.Equal(t,
		"settlement required: cash not reconciled for order ORD-1042",
		err.Error())
	assert.Equal(t, errs.ErrSettlementRequired, err.Unwrap())
	assert.ErrorIs(t, err, errs.ErrSettlementRequired)
}

func TestSanitization(t *testing.T) {
	err := errs.NewValueIsInvalidError("multi\nline")
	assert.NotContains(t, err.Error(), "\n")
}
