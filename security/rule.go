package security

import "golang.org/x/xerrors"

// Rule tells whether an access rule grants or refuses an action.
type Rule uint8

const (
	// Allow grants the action to the authority.
	Allow Rule = iota + 1

	// Deny refuses the action to the authority.
	Deny
)

// String returns the string form of the rule.
func (r Rule) String() string {
	switch r {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// ParseRule returns the rule matching the string form.
func ParseRule(s string) (Rule, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	default:
		return 0, xerrors.Errorf("unknown rule '%s'", s)
	}
}

// Order defines the sequence in which allow and deny rules are evaluated.
// The zero value is left invalid so that a secured object with an unset
// order is caught as a configuration error.
type Order uint8

const (
	// AllowDeny evaluates allow rules first. A matching deny rule overrides
	// any allow rule for the same action.
	AllowDeny Order = iota + 1

	// DenyAllow evaluates deny rules first and requires an explicit allow
	// rule afterwards. Evaluation under this order is not implemented and
	// fails loudly rather than silently behaving like AllowDeny.
	DenyAllow
)

// String returns the string form of the order as it appears in the XML rule
// configuration.
func (o Order) String() string {
	switch o {
	case AllowDeny:
		return "allow,deny"
	case DenyAllow:
		return "deny,allow"
	default:
		return "unknown"
	}
}

// ParseOrder returns the order matching the string form.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "allow,deny":
		return AllowDeny, nil
	case "deny,allow":
		return DenyAllow, nil
	default:
		return 0, xerrors.Errorf("unknown evaluation order '%s'", s)
	}
}

// AccessRule grants or refuses a single action to a single authority.
type AccessRule struct {
	Authority Authority
	Action    Action
	Rule      Rule
}

// NewAccessRule returns the access rule made of the given authority, action
// and rule.
func NewAccessRule(authority Authority, action Action, rule Rule) AccessRule {
	return AccessRule{
		Authority: authority,
		Action:    action,
		Rule:      rule,
	}
}
