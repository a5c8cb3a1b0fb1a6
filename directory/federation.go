package directory

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.entwine.ch/weblounge"
	"go.entwine.ch/weblounge/security"
	"golang.org/x/xerrors"
)

var (
	promLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weblounge_directory_lookups_total",
		Help: "total number of federated user lookups",
	})

	promProviderFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weblounge_directory_provider_failures_total",
		Help: "total number of provider failures contained by the federation",
	})
)

func init() {
	weblounge.PromCollectors = append(weblounge.PromCollectors, promLookups,
		promProviderFailures)
}

// Federation aggregates all directory providers applicable to a site plus
// the system-wide providers, and merges their answers into one logical user.
//
// Providers register and unregister on arbitrary goroutines while lookups
// are in flight, so every lookup works on a snapshot of the registry: a
// provider removed mid-call is silently omitted, never an error.
type Federation struct {
	sync.RWMutex

	site   map[string][]Provider
	system []Provider
}

// NewFederation returns a new empty federation.
func NewFederation() *Federation {
	return &Federation{
		site: make(map[string][]Provider),
	}
}

// Register adds the provider to the federation. A site-scoped provider must
// name at least one site it serves, a system-scoped provider serves every
// site and the list is ignored.
func (f *Federation) Register(provider Provider, sites ...string) error {
	f.Lock()
	defer f.Unlock()

	switch provider.Scope() {
	case SystemScope:
		f.system = append(f.system, provider)
	case SiteScope:
		if len(sites) == 0 {
			return xerrors.Errorf("site-scoped provider '%s' registered without a site",
				provider.Identifier())
		}

		for _, site := range sites {
			f.site[site] = append(f.site[site], provider)
		}
	default:
		return xerrors.Errorf("provider '%s' has unknown scope", provider.Identifier())
	}

	logger.Debug().
		Str("provider", provider.Identifier()).
		Stringer("scope", provider.Scope()).
		Msg("directory provider registered")

	return nil
}

// Unregister removes the provider from the federation. Sessions resolved
// through the provider stay valid.
func (f *Federation) Unregister(provider Provider) {
	f.Lock()
	defer f.Unlock()

	f.system = removeProvider(f.system, provider)
	for site, providers := range f.site {
		f.site[site] = removeProvider(providers, provider)
	}
}

// LoadUser queries every provider applicable to the site for the login. The
// first provider to know the login seeds the user, every further provider
// adds its credentials, so one provider can supply the identity and another
// one additional role grants. A provider failure is logged and does not
// abort the lookup. When no provider knows the login, nil is returned and
// the caller treats the request as anonymous.
func (f *Federation) LoadUser(login string, site security.Site) (*security.User, error) {
	if site == nil {
		return nil, security.NewIllegalState("no site given for user lookup")
	}

	promLookups.Inc()

	providers := f.snapshot(site.Identifier())

	var user *security.User
	for _, provider := range providers {
		u, err := loadFrom(provider, login, site)
		if err != nil {
			promProviderFailures.Inc()

			logger.Warn().
				Err(err).
				Str("provider", provider.Identifier()).
				Str("login", login).
				Msg("directory provider failed, continuing with the others")

			continue
		}

		if u == nil {
			continue
		}

		if user == nil {
			user = u
			continue
		}

		user.AddPublicCredentials(u.PublicCredentials()...)
		user.AddPrivateCredentials(u.PrivateCredentials()...)
	}

	if user == nil {
		return nil, nil
	}

	// The guest role is granted to everyone who can log in.
	user.AddPublicCredentials(security.GuestRole)

	f.translateRoles(user, providers)

	return user, nil
}

// Roles aggregates the roles of every provider applicable to the site,
// deduplicated and sorted.
func (f *Federation) Roles(site security.Site) ([]*security.Role, error) {
	if site == nil {
		return nil, security.NewIllegalState("no site given for role listing")
	}

	var roles []*security.Role
	for _, provider := range f.snapshot(site.Identifier()) {
		for _, role := range provider.Roles() {
			if !containsRole(roles, role) {
				roles = append(roles, role)
			}
		}
	}

	sort.Slice(roles, func(i, j int) bool {
		return roles[i].String() < roles[j].String()
	})

	return roles, nil
}

// snapshot returns a copy of the providers applicable to the site, so that
// concurrent registration changes never corrupt an in-flight merge.
func (f *Federation) snapshot(site string) []Provider {
	f.RLock()
	defer f.RUnlock()

	providers := make([]Provider, 0, len(f.site[site])+len(f.system))
	providers = append(providers, f.site[site]...)
	providers = append(providers, f.system...)

	return providers
}

// translateRoles grants the system equivalents of every role the user holds,
// as declared by the providers. Duplicates are dropped by role identity.
func (f *Federation) translateRoles(user *security.User, providers []Provider) {
	for _, role := range user.Roles() {
		for _, r := range role.Closure() {
			for _, provider := range providers {
				for _, system := range provider.SystemRoles(r) {
					user.AddPublicCredentials(system)
				}
			}
		}
	}
}

// loadFrom queries a single provider, containing panics so that a misbehaving
// provider cannot abort the federation.
func loadFrom(provider Provider, login string, site security.Site) (user *security.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			user = nil
			err = xerrors.Errorf("provider panic: %v", r)
		}
	}()

	return provider.LoadUser(login, site)
}

func removeProvider(providers []Provider, target Provider) []Provider {
	filtered := providers[:0]
	for _, p := range providers {
		if p == target {
			continue
		}

		filtered = append(filtered, p)
	}

	return filtered
}

func containsRole(roles []*security.Role, target *security.Role) bool {
	for _, r := range roles {
		if r.Equal(target) {
			return true
		}
	}

	return false
}
