package security

// Role is a named set of privileges that can be assigned to users. A role
// implies other roles, so that holding it grants everything the implied roles
// grant. Roles are immutable once constructed and compared by context and
// identifier.
type Role struct {
	context    string
	identifier string
	closure    []*Role
}

// Roles defined by the system. Every role implies its predecessor, with the
// guest role at the bottom of the chain.
var (
	GuestRole       = NewRole(SystemContext, "guest")
	EditorRole      = NewRole(SystemContext, "editor", GuestRole)
	PublisherRole   = NewRole(SystemContext, "publisher", EditorRole)
	SiteAdminRole   = NewRole(SystemContext, "siteadmin", PublisherRole)
	SystemAdminRole = NewRole(SystemContext, "systemadmin", SiteAdminRole)
)

// NewRole returns a role of the given context and identifier that implies all
// of the given roles. The transitive closure is computed once here, as the
// closure of every implied role is already complete.
func NewRole(context, identifier string, implies ...*Role) *Role {
	role := &Role{
		context:    context,
		identifier: identifier,
	}

	closure := []*Role{role}
	for _, implied := range implies {
		for _, r := range implied.Closure() {
			if !containsRole(closure, r) {
				closure = append(closure, r)
			}
		}
	}

	role.closure = closure

	return role
}

// SystemRoles returns the roles defined by the system.
func SystemRoles() []*Role {
	return []*Role{
		GuestRole,
		EditorRole,
		PublisherRole,
		SiteAdminRole,
		SystemAdminRole,
	}
}

// Context returns the context of the role.
func (r *Role) Context() string {
	return r.context
}

// Identifier returns the identifier of the role within its context.
func (r *Role) Identifier() string {
	return r.identifier
}

// Closure returns the transitive set of roles implied by the role, including
// the role itself.
func (r *Role) Closure() []*Role {
	return append([]*Role{}, r.closure...)
}

// Equal returns true if both roles share context and identifier.
func (r *Role) Equal(other *Role) bool {
	if other == nil {
		return false
	}

	return r.context == other.context && r.identifier == other.identifier
}

// Implies returns true if the other role is part of the closure.
func (r *Role) Implies(other *Role) bool {
	return containsRole(r.closure, other)
}

// Authority returns the role as an authority value.
func (r *Role) Authority() Authority {
	return NewAuthority(RoleType, r.String())
}

// String returns the string form of the role.
func (r *Role) String() string {
	return r.context + ":" + r.identifier
}

func containsRole(roles []*Role, target *Role) bool {
	for _, r := range roles {
		if r.Equal(target) {
			return true
		}
	}

	return false
}
