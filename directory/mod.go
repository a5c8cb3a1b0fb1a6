// Package directory federates the user and role directories of an
// installation. Several independent providers, some registered for a single
// site and some system-wide, can contribute roles and credentials to one
// logical identity.
package directory

import (
	"go.entwine.ch/weblounge"
	"go.entwine.ch/weblounge/security"
)

var logger = weblounge.Logger.With().Str("package", "directory").Logger()

// Scope tells whether a provider serves a single site or the whole system.
type Scope uint8

const (
	// SystemScope providers apply to every site.
	SystemScope Scope = iota + 1

	// SiteScope providers apply to the sites they are registered for.
	SiteScope
)

// String returns the string form of the scope.
func (s Scope) String() string {
	switch s {
	case SystemScope:
		return "system"
	case SiteScope:
		return "site"
	default:
		return "unknown"
	}
}

// Provider supplies users and roles from an external source such as a
// database, a configuration file or an LDAP directory. A provider that
// performs blocking I/O must not mask it; callers apply their own timeouts
// around LoadUser.
type Provider interface {
	// Identifier returns the unique identifier of the provider.
	Identifier() string

	// Scope returns the scope of the provider.
	Scope() Scope

	// LoadUser returns the user with the given login, or nil if the provider
	// does not know the login. An unknown login is not an error.
	LoadUser(login string, site security.Site) (*security.User, error)

	// Roles returns the roles defined by the provider.
	Roles() []*security.Role

	// LocalRole returns the provider's role that stands for the given system
	// role, or nil if the provider defines no equivalent.
	LocalRole(system *security.Role) *security.Role

	// SystemRoles returns the system roles implied by the given local role.
	// An empty result means the local role stands alone.
	SystemRoles(local *security.Role) []*security.Role
}
