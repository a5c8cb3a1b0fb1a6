package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type contextSite struct {
	id string
}

func (s contextSite) Identifier() string {
	return s.id
}

func TestContext_Site(t *testing.T) {
	ctx := NewContext()
	require.Nil(t, ctx.Site())

	_, err := ctx.RequireSite()
	require.EqualError(t, err, "illegal state: no site set in security context")
	require.True(t, IsIllegalState(err))

	ctx.SetSite(contextSite{id: "main"})

	site, err := ctx.RequireSite()
	require.NoError(t, err)
	require.Equal(t, "main", site.Identifier())
}

func TestContext_User(t *testing.T) {
	ctx := NewContext()
	require.True(t, ctx.IsEnabled())

	// No user resolved yet, requests act as the anonymous guest.
	user := ctx.User()
	require.Equal(t, "anonymous", user.Login())
	require.False(t, user.Authenticated())

	jane := NewUser("jane", DefaultRealm)
	ctx.SetUser(jane)
	require.Equal(t, jane, ctx.User())
}

func TestContext_Disabled(t *testing.T) {
	ctx := NewContext()
	ctx.SetEnabled(false)
	require.False(t, ctx.IsEnabled())

	user := ctx.User()
	require.Equal(t, "admin", user.Login())
	require.True(t, user.HasRole(SystemAdminRole))
}

func TestContext_Clear(t *testing.T) {
	ctx := NewContext()
	ctx.SetSite(contextSite{id: "main"})
	ctx.SetUser(NewUser("jane", DefaultRealm))

	ctx.Clear()

	require.Nil(t, ctx.Site())
	require.Equal(t, "anonymous", ctx.User().Login())
}
