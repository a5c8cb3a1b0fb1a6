// Package security implements the rule-based access control model. An
// arbitrary object becomes secured by holding an ACL: an owner, an evaluation
// order and an ordered set of allow and deny rules, each granting or refusing
// an action to an authority such as a role, a user or a group.
package security

import (
	"github.com/rs/zerolog"
	"go.entwine.ch/weblounge"
)

// SystemContext is the context under which the built-in actions and roles are
// defined.
const SystemContext = "weblounge"

var logger = weblounge.Logger.With().Str("package", "security").Logger()

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// Site identifies one of the sites hosted by an installation. The content and
// rendering side of a site lives outside of this module.
type Site interface {
	// Identifier returns the unique identifier of the site.
	Identifier() string
}

// DefaultPolicy decides the outcome of a permission check when a secured
// object carries no rule at all for the action in question. The owner escape
// hatch is applied before the policy is consulted.
type DefaultPolicy func(action Action, authority Authority) bool

// OpenPolicy is the default policy used when none is configured. It allows
// every authority to obtain every action.
func OpenPolicy(Action, Authority) bool {
	return true
}

// ClosedPolicy refuses every authority for every action. It is the policy of
// choice for installations that require explicit grants on all content.
func ClosedPolicy(Action, Authority) bool {
	return false
}

// Securable is the capability interface of entities carrying an access
// control list. Content types hold an ACL value rather than implementing the
// evaluation themselves.
type Securable interface {
	// Owner returns the owner of the secured object.
	Owner() *User

	// Order returns the order in which allow and deny rules are evaluated.
	Order() Order

	// Rules returns the access rules, grouped by action and rule.
	Rules() []AccessRule

	// IsDefaultAccess returns true as long as no explicit rule has been added.
	IsDefaultAccess() bool

	// Policy returns the default policy consulted when no rule matches.
	Policy() DefaultPolicy

	// IsAllowed returns whether the authority may obtain the action.
	IsAllowed(action Action, authority Authority) (bool, error)

	// IsDenied returns whether the authority is refused the action.
	IsDenied(action Action, authority Authority) (bool, error)
}
