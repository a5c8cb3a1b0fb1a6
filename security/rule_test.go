package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRule_String(t *testing.T) {
	require.Equal(t, "allow", Allow.String())
	require.Equal(t, "deny", Deny.String())
	require.Equal(t, "unknown", Rule(99).String())
}

func TestRule_ParseRule(t *testing.T) {
	rule, err := ParseRule("allow")
	require.NoError(t, err)
	require.Equal(t, Allow, rule)

	rule, err = ParseRule("deny")
	require.NoError(t, err)
	require.Equal(t, Deny, rule)

	_, err = ParseRule("maybe")
	require.EqualError(t, err, "unknown rule 'maybe'")
}

func TestOrder_String(t *testing.T) {
	require.Equal(t, "allow,deny", AllowDeny.String())
	require.Equal(t, "deny,allow", DenyAllow.String())
	require.Equal(t, "unknown", Order(0).String())
}

func TestOrder_ParseOrder(t *testing.T) {
	order, err := ParseOrder("allow,deny")
	require.NoError(t, err)
	require.Equal(t, AllowDeny, order)

	order, err = ParseOrder("deny,allow")
	require.NoError(t, err)
	require.Equal(t, DenyAllow, order)

	_, err = ParseOrder("deny")
	require.EqualError(t, err, "unknown evaluation order 'deny'")
}

func TestAccessRule_New(t *testing.T) {
	rule := NewAccessRule(EditorRole.Authority(), WriteAction, Allow)
	require.Equal(t, EditorRole.Authority(), rule.Authority)
	require.Equal(t, WriteAction, rule.Action)
	require.Equal(t, Allow, rule.Rule)
}
