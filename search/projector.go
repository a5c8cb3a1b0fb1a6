package search

import (
	"go.entwine.ch/weblounge/security"
)

// EffectiveAuthorities returns the authority identifiers a caller can match
// in the allow fields. The wildcard is always part of the set so that
// documents open to everybody are found even by anonymous callers.
func EffectiveAuthorities(user *security.User) []string {
	values := []string{security.AnyID}

	if user == nil {
		return appendValue(values, security.GuestRole.String())
	}

	values = appendValue(values, user.Login())

	for _, role := range user.Roles() {
		for _, implied := range role.Closure() {
			values = appendValue(values, implied.String())
		}
	}

	return values
}

// AccessFilter returns the filter restricting a query to the documents the
// user may perform every given action on. Without actions there is nothing
// to restrict and no filter is returned.
func AccessFilter(user *security.User, actions ...security.Action) Filter {
	if len(actions) == 0 {
		return nil
	}

	values := EffectiveAuthorities(user)

	if len(actions) == 1 {
		return NewTermsFilter(AllowFieldName(actions[0]), values...)
	}

	filters := make([]Filter, len(actions))
	for i, action := range actions {
		filters[i] = NewTermsFilter(AllowFieldName(action), values...)
	}

	return NewAndFilter(filters...)
}
