package directory_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.entwine.ch/weblounge/directory"
	"go.entwine.ch/weblounge/internal/testing/fake"
	"go.entwine.ch/weblounge/security"
)

func TestFederation_Register(t *testing.T) {
	federation := directory.NewFederation()

	err := federation.Register(fake.NewDirectoryProvider("a"), "main")
	require.NoError(t, err)

	err = federation.Register(fake.NewDirectoryProvider("b"))
	require.EqualError(t, err, "site-scoped provider 'b' registered without a site")

	system := fake.NewDirectoryProvider("c")
	system.ProvScope = directory.SystemScope

	err = federation.Register(system)
	require.NoError(t, err)

	broken := fake.NewDirectoryProvider("d")
	broken.ProvScope = directory.Scope(9)

	err = federation.Register(broken)
	require.EqualError(t, err, "provider 'd' has unknown scope")
}

func TestFederation_LoadUser(t *testing.T) {
	jane := security.NewUser("jane", "testland")
	jane.SetName("Jane Doe")
	jane.AddPublicCredentials(security.EditorRole)

	federation := directory.NewFederation()

	err := federation.Register(fake.NewDirectoryProvider("a", jane), "main")
	require.NoError(t, err)

	user, err := federation.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "jane", user.Login())
	require.True(t, user.HasRole(security.EditorRole))
	require.True(t, user.HasRole(security.GuestRole))
}

func TestFederation_LoadUser_NoSite(t *testing.T) {
	federation := directory.NewFederation()

	_, err := federation.LoadUser("jane", nil)
	require.EqualError(t, err, "illegal state: no site given for user lookup")
}

func TestFederation_LoadUser_Unknown(t *testing.T) {
	federation := directory.NewFederation()

	err := federation.Register(fake.NewDirectoryProvider("a"), "main")
	require.NoError(t, err)

	user, err := federation.LoadUser("nobody", fake.NewSite("main"))
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestFederation_LoadUser_Merge(t *testing.T) {
	// The first provider seeds the identity, the second one only contributes
	// an additional role and a password for the same login.
	seed := security.NewUser("jane", "testland")

	extra := security.NewUser("jane", "other")
	extra.AddPublicCredentials(security.PublisherRole)
	extra.AddPrivateCredentials(security.NewPassword("secret", security.PlainDigest))

	federation := directory.NewFederation()

	require.NoError(t, federation.Register(fake.NewDirectoryProvider("a", seed), "main"))
	require.NoError(t, federation.Register(fake.NewDirectoryProvider("b", extra), "main"))

	user, err := federation.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)

	require.Equal(t, "testland", user.Realm())
	require.True(t, user.HasRole(security.PublisherRole))
	require.Len(t, user.Passwords(), 1)
}

func TestFederation_LoadUser_SiteScoping(t *testing.T) {
	jane := security.NewUser("jane", "testland")

	federation := directory.NewFederation()

	require.NoError(t, federation.Register(fake.NewDirectoryProvider("a", jane), "main"))

	user, err := federation.LoadUser("jane", fake.NewSite("other"))
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestFederation_LoadUser_SystemProvider(t *testing.T) {
	jane := security.NewUser("jane", "testland")

	provider := fake.NewDirectoryProvider("a", jane)
	provider.ProvScope = directory.SystemScope

	federation := directory.NewFederation()
	require.NoError(t, federation.Register(provider))

	// A system-scoped provider answers for every site.
	user, err := federation.LoadUser("jane", fake.NewSite("whatever"))
	require.NoError(t, err)
	require.NotNil(t, user)
}

func TestFederation_LoadUser_FailureContained(t *testing.T) {
	jane := security.NewUser("jane", "testland")

	federation := directory.NewFederation()

	require.NoError(t, federation.Register(fake.NewBadDirectoryProvider("bad"), "main"))

	panicking := fake.NewDirectoryProvider("worse")
	panicking.Panics = true
	require.NoError(t, federation.Register(panicking, "main"))

	require.NoError(t, federation.Register(fake.NewDirectoryProvider("good", jane), "main"))

	user, err := federation.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "jane", user.Login())
}

func TestFederation_LoadUser_RoleTranslation(t *testing.T) {
	local := security.NewRole("ldap", "cms-editors")

	jane := security.NewUser("jane", "testland")
	jane.AddPublicCredentials(local)

	provider := fake.NewDirectoryProvider("a", jane)
	provider.RoleSet = []*security.Role{local}
	provider.Trans[local.String()] = []*security.Role{security.EditorRole}

	federation := directory.NewFederation()
	require.NoError(t, federation.Register(provider, "main"))

	user, err := federation.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)

	require.True(t, user.HasRole(local))
	require.True(t, user.HasRole(security.EditorRole))
}

func TestFederation_LoadUser_TranslationDedup(t *testing.T) {
	// A system-scoped provider grants the editor role directly while a
	// site-scoped provider grants a local role translating to the same
	// editor role. The merged user holds the editor role exactly once.
	local := security.NewRole("ldap", "cms-editors")

	direct := security.NewUser("jane", "testland")
	direct.AddPublicCredentials(security.EditorRole)

	system := fake.NewDirectoryProvider("sys", direct)
	system.ProvScope = directory.SystemScope

	translated := security.NewUser("jane", "ldap")
	translated.AddPublicCredentials(local)

	site := fake.NewDirectoryProvider("ldap", translated)
	site.RoleSet = []*security.Role{local}
	site.Trans[local.String()] = []*security.Role{security.EditorRole}

	federation := directory.NewFederation()
	require.NoError(t, federation.Register(site, "main"))
	require.NoError(t, federation.Register(system))

	user, err := federation.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)

	// Guest, the local role and a single editor role.
	require.Len(t, user.Roles(), 3)

	count := 0
	for _, role := range user.Roles() {
		if role.Equal(security.EditorRole) {
			count++
		}
	}

	require.Equal(t, 1, count)
}

func TestFederation_Unregister(t *testing.T) {
	jane := security.NewUser("jane", "testland")

	provider := fake.NewDirectoryProvider("a", jane)

	federation := directory.NewFederation()
	require.NoError(t, federation.Register(provider, "main"))

	federation.Unregister(provider)

	user, err := federation.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestFederation_Roles(t *testing.T) {
	a := fake.NewDirectoryProvider("a")
	a.RoleSet = []*security.Role{security.EditorRole, security.PublisherRole}

	b := fake.NewDirectoryProvider("b")
	b.RoleSet = []*security.Role{security.EditorRole, security.GuestRole}

	federation := directory.NewFederation()
	require.NoError(t, federation.Register(a, "main"))
	require.NoError(t, federation.Register(b, "main"))

	roles, err := federation.Roles(fake.NewSite("main"))
	require.NoError(t, err)
	require.Len(t, roles, 3)
	require.Equal(t, "weblounge:editor", roles[0].String())
	require.Equal(t, "weblounge:guest", roles[1].String())
	require.Equal(t, "weblounge:publisher", roles[2].String())

	_, err = federation.Roles(nil)
	require.EqualError(t, err, "illegal state: no site given for role listing")
}
