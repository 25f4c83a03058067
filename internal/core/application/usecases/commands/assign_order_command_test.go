package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignOrderCommand_Success(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewAssignOrderCommand(orderID)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, orderID.IsEqual(cmd.OrderID()))
}

func TestNewAssignOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewAssignOrderCommand(kernel.UUID{})
	require.Error(t, err)
}

func TestAssignOrderCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.AssignOrderCommand // zero value, not constructed via constructor

	err := cmd.Validate()

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAssignOrderCommandIsNotConstructed)
}
