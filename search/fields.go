package search

import (
	"sort"

	"go.entwine.ch/weblounge/security"
	"golang.org/x/xerrors"
)

// AllowFieldPrefix is the prefix of the index fields holding the authorities
// allowed to perform an action.
const AllowFieldPrefix = "allowdeny_allow_"

// AllowFieldName returns the index field holding the authorities allowed to
// perform the action. The context and the identifier of the action are
// concatenated so that actions from different contexts cannot collide with
// a well chosen identifier.
func AllowFieldName(action security.Action) string {
	return AllowFieldPrefix + action.Context + action.Identifier
}

// DocumentFields projects the securable into the index fields of its
// document. Each action with at least one allow rule produces a field
// listing the allowed authority identifiers, and the owner is added to
// every field.
//
// Securables still under their default access produce a wildcard entry for
// every system action instead, since they have no rules to project.
//
// Deny rules cannot be projected into an allow field and are rejected, and
// so are securables evaluating deny rules first.
func DocumentFields(securable security.Securable) (map[string][]string, error) {
	switch securable.Order() {
	case security.AllowDeny:
	case security.DenyAllow:
		return nil, xerrors.Errorf("projecting securable: %w", security.ErrNotImplemented)
	default:
		return nil, security.NewIllegalState("evaluation order is not set")
	}

	fields := make(map[string][]string)

	if securable.IsDefaultAccess() {
		for _, action := range security.SystemActions() {
			fields[AllowFieldName(action)] = []string{security.AnyID}
		}

		return withOwner(fields, securable.Owner()), nil
	}

	for _, rule := range securable.Rules() {
		if rule.Rule == security.Deny {
			return nil, xerrors.Errorf("deny rule for '%s' cannot be indexed", rule.Action)
		}

		field := AllowFieldName(rule.Action)
		fields[field] = appendValue(fields[field], rule.Authority.ID)
	}

	return withOwner(fields, securable.Owner()), nil
}

func withOwner(fields map[string][]string, owner *security.User) map[string][]string {
	if owner == nil {
		return fields
	}

	for field, values := range fields {
		fields[field] = appendValue(values, owner.Login())
	}

	return fields
}

func appendValue(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}

	values = append(values, value)
	sort.Strings(values)

	return values
}
