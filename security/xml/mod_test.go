package xml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.entwine.ch/weblounge/internal/testing/fake"
	"go.entwine.ch/weblounge/security"
	"go.entwine.ch/weblounge/serde"
)

const sampleSecurity = `
<security>
  <owner><user id="hans" realm="testland"/></owner>
  <acl order="allow,deny">
    <permission id="weblounge:write">
      <allow type="role">weblounge:editor</allow>
      <deny type="user">peter</deny>
    </permission>
    <permission id="weblounge:publish">
      <allow type="role">weblounge:publisher</allow>
    </permission>
  </acl>
</security>`

func TestRead(t *testing.T) {
	acl, err := Read(strings.NewReader(sampleSecurity))
	require.NoError(t, err)

	require.Equal(t, "hans", acl.Owner().Login())
	require.Equal(t, "testland", acl.Owner().Realm())
	require.Equal(t, security.AllowDeny, acl.Order())
	require.Len(t, acl.Rules(), 3)

	allowed, err := acl.IsAllowed(security.WriteAction, security.EditorRole.Authority())
	require.NoError(t, err)
	require.True(t, allowed)

	denied, err := acl.IsDenied(security.WriteAction,
		security.NewAuthority(security.UserType, "peter"))
	require.NoError(t, err)
	require.True(t, denied)

	allowed, err = acl.IsAllowed(security.PublishAction, security.PublisherRole.Authority())
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRead_DefaultRealm(t *testing.T) {
	acl, err := Read(strings.NewReader(`<security><owner><user id="hans"/></owner></security>`))
	require.NoError(t, err)

	require.Equal(t, security.DefaultRealm, acl.Owner().Realm())
	require.True(t, acl.IsDefaultAccess())
}

func TestRead_Wildcard(t *testing.T) {
	doc := `<security><acl order="allow,deny">
	  <permission id="weblounge:read"><allow type="any">*</allow></permission>
	</acl></security>`

	acl, err := Read(strings.NewReader(doc))
	require.NoError(t, err)

	allowed, err := acl.IsAllowed(security.ReadAction,
		security.NewAuthority(security.UserType, "whoever"))
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader("<security"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse security block")

	_, err = Read(strings.NewReader(`<security><acl order="sideways"/></security>`))
	require.EqualError(t, err, "failed to parse security block: XML format: "+
		"failed to decode order: unknown evaluation order 'sideways'")

	doc := `<security><acl order="allow,deny"><permission id="oops"/></acl></security>`
	_, err = Read(strings.NewReader(doc))
	require.EqualError(t, err, "failed to parse security block: XML format: "+
		"failed to decode permission: malformed action 'oops'")
}

func TestWrite_RoundTrip(t *testing.T) {
	acl := security.NewACL(
		security.WithOwner(security.NewUser("hans", "testland")),
		security.WithRules(
			security.NewAccessRule(security.EditorRole.Authority(),
				security.WriteAction, security.Allow),
			security.NewAccessRule(security.NewAuthority(security.UserType, "peter"),
				security.WriteAction, security.Deny),
		),
	)

	buffer := new(bytes.Buffer)

	err := Write(buffer, acl)
	require.NoError(t, err)

	decoded, err := Read(buffer)
	require.NoError(t, err)

	require.Equal(t, "hans", decoded.Owner().Login())
	require.Equal(t, acl.Order(), decoded.Order())
	require.Len(t, decoded.Rules(), len(acl.Rules()))

	for _, authority := range []security.Authority{
		security.EditorRole.Authority(),
		security.NewAuthority(security.UserType, "peter"),
		security.NewAuthority(security.UserType, "jane"),
	} {
		expected, err := acl.IsAllowed(security.WriteAction, authority)
		require.NoError(t, err)

		actual, err := decoded.IsAllowed(security.WriteAction, authority)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}
}

func TestWrite_DefaultAccess(t *testing.T) {
	buffer := new(bytes.Buffer)

	err := Write(buffer, security.NewACL(
		security.WithOwner(security.NewUser("hans", "testland"))))
	require.NoError(t, err)

	require.NotContains(t, buffer.String(), "<acl")
	require.Contains(t, buffer.String(), `<user id="hans" realm="testland">`)
}

func TestACLFormat_Encode_BadType(t *testing.T) {
	_, err := aclFormat{}.Encode(fake.NewContext(), fakeMessage{})
	require.EqualError(t, err, "invalid acl 'xml.fakeMessage'")
}

func TestACLFormat_Encode_BadContext(t *testing.T) {
	_, err := aclFormat{}.Encode(fake.NewBadContext(), security.NewACL())
	require.EqualError(t, err, "failed to marshal: fake error")
}

type fakeMessage struct{}

func (fakeMessage) Serialize(ctx serde.Context) ([]byte, error) {
	return nil, nil
}
