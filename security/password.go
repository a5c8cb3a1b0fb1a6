package security

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/xerrors"
)

// DigestType describes how a password is stored.
type DigestType uint8

const (
	// PlainDigest stores the password as given.
	PlainDigest DigestType = iota + 1

	// MD5Digest stores the hex encoded md5 sum of the password.
	MD5Digest
)

// String returns the string form of the digest type.
func (d DigestType) String() string {
	switch d {
	case PlainDigest:
		return "plain"
	case MD5Digest:
		return "md5"
	default:
		return "unknown"
	}
}

// ParseDigestType returns the digest type matching the string form.
func ParseDigestType(s string) (DigestType, error) {
	switch s {
	case "plain":
		return PlainDigest, nil
	case "md5":
		return MD5Digest, nil
	default:
		return 0, xerrors.Errorf("unknown digest type '%s'", s)
	}
}

// Password is a private credential holding the password of a user in either
// plain or digested form.
type Password struct {
	value  string
	digest DigestType
}

// NewPassword returns a password credential.
func NewPassword(value string, digest DigestType) Password {
	return Password{
		value:  value,
		digest: digest,
	}
}

// Value returns the stored form of the password.
func (p Password) Value() string {
	return p.value
}

// Digest returns the digest type of the password.
func (p Password) Digest() DigestType {
	return p.digest
}

// Check returns true if the given plain text password matches the stored one.
func (p Password) Check(plain string) bool {
	expected := p.value

	actual := plain
	if p.digest == MD5Digest {
		sum := md5.Sum([]byte(plain))
		actual = hex.EncodeToString(sum[:])
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
