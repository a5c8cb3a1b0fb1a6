package bolt

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.entwine.ch/weblounge/directory"
	"go.entwine.ch/weblounge/internal/testing/fake"
	"go.entwine.ch/weblounge/security"
	"go.entwine.ch/weblounge/store/kv"
)

func TestProvider_New(t *testing.T) {
	provider, err := NewProvider("accounts", fake.NewInMemoryDB())
	require.NoError(t, err)
	require.Equal(t, "accounts", provider.Identifier())
	require.Equal(t, directory.SiteScope, provider.Scope())

	_, err = NewProvider("", fake.NewInMemoryDB())
	require.EqualError(t, err, "provider identifier is missing")

	provider, err = NewProvider("accounts", fake.NewInMemoryDB(),
		WithScope(directory.SystemScope), WithRealm("testland"))
	require.NoError(t, err)
	require.Equal(t, directory.SystemScope, provider.Scope())
}

func TestProvider_SaveLoad(t *testing.T) {
	provider, err := NewProvider("accounts", fake.NewInMemoryDB(),
		WithRealm("testland"))
	require.NoError(t, err)

	jane := security.NewUser("jane", "testland")
	jane.SetName("Jane Doe")
	jane.AddPublicCredentials(security.EditorRole)
	jane.AddPrivateCredentials(security.NewPassword("secret", security.PlainDigest))

	err = provider.SaveUser(jane)
	require.NoError(t, err)

	user, err := provider.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.Equal(t, "jane", user.Login())
	require.Equal(t, "Jane Doe", user.Name())
	require.Equal(t, "testland", user.Realm())
	require.True(t, user.HasRole(security.EditorRole))
	require.True(t, user.Passwords()[0].Check("secret"))
}

func TestProvider_Load_Unknown(t *testing.T) {
	provider, err := NewProvider("accounts", fake.NewInMemoryDB())
	require.NoError(t, err)

	// Nothing stored yet, the users bucket does not even exist.
	user, err := provider.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.Nil(t, user)

	require.NoError(t, provider.SaveUser(security.NewUser("hans", "testland")))

	user, err = provider.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestProvider_Load_CustomRole(t *testing.T) {
	local := security.NewRole("ldap", "cms-editors")

	db := fake.NewInMemoryDB()

	provider, err := NewProvider("accounts", db,
		WithRoles(local),
		WithTranslation(local, security.EditorRole))
	require.NoError(t, err)

	jane := security.NewUser("jane", security.DefaultRealm)
	jane.AddPublicCredentials(local)
	require.NoError(t, provider.SaveUser(jane))

	user, err := provider.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.True(t, user.HasRole(local))

	// A provider without the role catalog cannot rebuild the account.
	bare, err := NewProvider("accounts", db)
	require.NoError(t, err)

	_, err = bare.LoadUser("jane", fake.NewSite("main"))
	require.EqualError(t, err, "account 'jane' references unknown role 'ldap:cms-editors'")
}

func TestProvider_Remove(t *testing.T) {
	provider, err := NewProvider("accounts", fake.NewInMemoryDB())
	require.NoError(t, err)

	require.NoError(t, provider.SaveUser(security.NewUser("jane", "testland")))
	require.NoError(t, provider.RemoveUser("jane"))

	user, err := provider.LoadUser("jane", fake.NewSite("main"))
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestProvider_Logins(t *testing.T) {
	provider, err := NewProvider("accounts", fake.NewInMemoryDB())
	require.NoError(t, err)

	logins, err := provider.Logins()
	require.NoError(t, err)
	require.Empty(t, logins)

	require.NoError(t, provider.SaveUser(security.NewUser("jane", "testland")))
	require.NoError(t, provider.SaveUser(security.NewUser("hans", "testland")))

	logins, err = provider.Logins()
	require.NoError(t, err)
	require.Len(t, logins, 2)
	require.Contains(t, logins, "jane")
	require.Contains(t, logins, "hans")
}

func TestProvider_Roles(t *testing.T) {
	local := security.NewRole("ldap", "cms-editors")

	provider, err := NewProvider("accounts", fake.NewInMemoryDB(),
		WithRoles(local),
		WithTranslation(local, security.EditorRole))
	require.NoError(t, err)

	require.Equal(t, []*security.Role{local}, provider.Roles())
	require.Equal(t, []*security.Role{security.EditorRole}, provider.SystemRoles(local))
	require.True(t, local.Equal(provider.LocalRole(security.EditorRole)))
	require.Nil(t, provider.LocalRole(security.PublisherRole))
}

func TestProvider_DatabaseFailure(t *testing.T) {
	// A failing database is a provider fault, not an unknown login.
	provider, err := NewProvider("accounts", fake.NewBadViewDB())
	require.NoError(t, err)

	_, err = provider.LoadUser("jane", fake.NewSite("main"))
	require.EqualError(t, err, "failed to read account 'jane': fake error")

	_, err = provider.Logins()
	require.EqualError(t, err, "failed to list accounts: fake error")
}

func TestProvider_Load_Malformed(t *testing.T) {
	db := fake.NewInMemoryDB()

	provider, err := NewProvider("accounts", db)
	require.NoError(t, err)

	// Overwrite the record with data that is not a JSON document.
	err = db.Update(usersBucket, func(bucket kv.Bucket) error {
		return bucket.Set([]byte("jane"), []byte("not json"))
	})
	require.NoError(t, err)

	_, err = provider.LoadUser("jane", fake.NewSite("main"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed record for 'jane'")
}
