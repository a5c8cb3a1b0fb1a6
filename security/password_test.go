package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassword_Check_Plain(t *testing.T) {
	password := NewPassword("secret", PlainDigest)

	require.True(t, password.Check("secret"))
	require.False(t, password.Check("wrong"))
}

func TestPassword_Check_MD5(t *testing.T) {
	password := NewPassword("5ebe2294ecd0e0f08eab7690d2a6ee69", MD5Digest)

	require.True(t, password.Check("secret"))
	require.False(t, password.Check("wrong"))
}

func TestDigestType_String(t *testing.T) {
	require.Equal(t, "plain", PlainDigest.String())
	require.Equal(t, "md5", MD5Digest.String())
	require.Equal(t, "unknown", DigestType(9).String())
}

func TestDigestType_Parse(t *testing.T) {
	digest, err := ParseDigestType("md5")
	require.NoError(t, err)
	require.Equal(t, MD5Digest, digest)

	digest, err = ParseDigestType("plain")
	require.NoError(t, err)
	require.Equal(t, PlainDigest, digest)

	_, err = ParseDigestType("sha1")
	require.EqualError(t, err, "unknown digest type 'sha1'")
}
