package security

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// ErrNotImplemented is returned whenever the deny-allow evaluation order is
// requested. The order is part of the data model but its semantics are not
// implemented, and pretending otherwise would give a false sense of security.
var ErrNotImplemented = xerrors.New("deny-allow order is not implemented")

// IllegalStateError indicates a wiring bug upstream, such as a missing site
// in the security context or an unset evaluation order. It must never be
// mistaken for a permission denial.
type IllegalStateError struct {
	Reason string
}

// Error implements error.
func (e IllegalStateError) Error() string {
	return "illegal state: " + e.Reason
}

// NewIllegalState returns an illegal state error with the given reason.
func NewIllegalState(format string, args ...interface{}) error {
	return IllegalStateError{Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalState returns true if the error signals a configuration or wiring
// bug rather than a permission denial.
func IsIllegalState(err error) bool {
	var ise IllegalStateError
	return errors.As(err, &ise)
}

// PermissionError is the outcome of a refused permission check. It is a
// normal, expected result and carries the pieces needed for diagnostics.
type PermissionError struct {
	User   *User
	Action Action
	Target string
}

// NewPermissionError returns a permission error for the given user, action
// and target description.
func NewPermissionError(user *User, action Action, target string) PermissionError {
	return PermissionError{
		User:   user,
		Action: action,
		Target: target,
	}
}

// Error implements error.
func (e PermissionError) Error() string {
	login := "anonymous"
	if e.User != nil {
		login = e.User.String()
	}

	return fmt.Sprintf("user '%s' may not '%s' on '%s'", login, e.Action, e.Target)
}

// IsPermissionError returns true if the error is a refused permission check.
func IsPermissionError(err error) bool {
	var pe PermissionError
	return errors.As(err, &pe)
}
