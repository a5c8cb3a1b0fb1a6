package security

// Authority type identifiers. The wildcard type paired with the wildcard id
// matches any authority.
const (
	AnyType   = "any"
	RoleType  = "role"
	UserType  = "user"
	GroupType = "group"

	// AnyID is the wildcard authority identifier.
	AnyID = "*"
)

// Authority is an identity-like value, such as a role, a user or a group,
// that can be granted or denied actions.
type Authority struct {
	Type string
	ID   string
}

// Any is the wildcard authority. Every authority matches it and it matches
// every authority.
var Any = Authority{Type: AnyType, ID: AnyID}

// NewAuthority returns an authority of the given type and identifier.
func NewAuthority(typ, id string) Authority {
	return Authority{Type: typ, ID: id}
}

// AuthorityOf returns the authority described by a serialized type and
// value. The literal types "any" and "all" as well as the wildcard value
// match universally.
func AuthorityOf(typ, value string) Authority {
	if typ == AnyType || typ == "all" || value == AnyID {
		return Any
	}

	return Authority{Type: typ, ID: value}
}

// Matches returns true if the two authorities designate the same identity.
// The wildcard is checked first so that any concrete authority matches it,
// and vice versa.
func (a Authority) Matches(other Authority) bool {
	if a == Any || other == Any {
		return true
	}

	return a.Type == other.Type && a.ID == other.ID
}

// String returns a human readable form of the authority.
func (a Authority) String() string {
	return a.Type + " '" + a.ID + "'"
}
