package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestIllegalStateError(t *testing.T) {
	err := NewIllegalState("order %d is unknown", 9)
	require.EqualError(t, err, "illegal state: order 9 is unknown")
	require.True(t, IsIllegalState(err))

	wrapped := xerrors.Errorf("outer: %w", err)
	require.True(t, IsIllegalState(wrapped))

	require.False(t, IsIllegalState(xerrors.New("oops")))
}

func TestPermissionError(t *testing.T) {
	err := NewPermissionError(NewUser("jane", DefaultRealm), WriteAction, "page")
	require.EqualError(t, err, "user 'jane@weblounge' may not 'weblounge:write' on 'page'")
	require.True(t, IsPermissionError(err))

	err = NewPermissionError(nil, WriteAction, "page")
	require.EqualError(t, err, "user 'anonymous' may not 'weblounge:write' on 'page'")

	require.False(t, IsPermissionError(xerrors.New("oops")))
}
