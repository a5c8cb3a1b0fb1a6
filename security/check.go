package security

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.entwine.ch/weblounge"
	"golang.org/x/xerrors"
)

var (
	promChecks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weblounge_security_checks_total",
		Help: "total number of permission checks",
	})

	promDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weblounge_security_denials_total",
		Help: "total number of refused permission checks",
	})
)

func init() {
	weblounge.PromCollectors = append(weblounge.PromCollectors, promChecks,
		promDenials)
}

// Authorities returns the authorities a user presents during a permission
// check: the identity of the user itself plus the closure of every role the
// user holds. A nil user presents the guest role only.
func Authorities(user *User) []Authority {
	if user == nil {
		return []Authority{GuestRole.Authority()}
	}

	authorities := []Authority{user.Authority()}
	for _, role := range user.Roles() {
		for _, r := range role.Closure() {
			authority := r.Authority()
			if !containsAuthority(authorities, authority) {
				authorities = append(authorities, authority)
			}
		}
	}

	return authorities
}

// Check returns nil if the user may obtain the action on the secured object,
// or a PermissionError otherwise. An explicit allow for any of the user's
// authorities grants the action, an explicit deny refuses it, and a user
// matching no rule at all is left to the default policy of the object.
func Check(securable Securable, action Action, user *User, target string) error {
	promChecks.Inc()

	authorities := Authorities(user)

	denied := false
	for _, authority := range authorities {
		allowed, err := securable.IsAllowed(action, authority)
		if err != nil {
			return xerrors.Errorf("checking '%s': %w", action, err)
		}

		if allowed {
			return nil
		}

		isDenied, err := securable.IsDenied(action, authority)
		if err != nil {
			return xerrors.Errorf("checking '%s': %w", action, err)
		}

		denied = denied || isDenied
	}

	if !denied {
		// Neither explicitly allowed nor explicitly denied, so the default
		// policy of the secured object decides.
		if policy := securable.Policy(); policy != nil && policy(action, authorities[0]) {
			return nil
		}
	}

	promDenials.Inc()

	logger.Debug().
		Str("action", action.String()).
		Str("target", target).
		Msg("permission refused")

	return NewPermissionError(user, action, target)
}

func containsAuthority(authorities []Authority, target Authority) bool {
	for _, a := range authorities {
		if a == target {
			return true
		}
	}

	return false
}
