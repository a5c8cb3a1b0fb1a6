package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAction_ParseAction(t *testing.T) {
	action, err := ParseAction("weblounge:publish")
	require.NoError(t, err)
	require.Equal(t, PublishAction, action)

	action, err = ParseAction("shop:checkout")
	require.NoError(t, err)
	require.Equal(t, "shop", action.Context)
	require.Equal(t, "checkout", action.Identifier)

	_, err = ParseAction("read")
	require.EqualError(t, err, "malformed action 'read'")

	_, err = ParseAction(":read")
	require.EqualError(t, err, "malformed action ':read'")

	_, err = ParseAction("weblounge:")
	require.EqualError(t, err, "malformed action 'weblounge:'")
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "weblounge:read", ReadAction.String())
	require.Equal(t, "shop:checkout", NewAction("shop", "checkout").String())
}

func TestAction_SystemActions(t *testing.T) {
	actions := SystemActions()
	require.Len(t, actions, 8)
	require.Contains(t, actions, ReadAction)
	require.Contains(t, actions, ManageAction)
}
