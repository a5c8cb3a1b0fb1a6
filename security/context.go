package security

// Context carries the ambient identity of one request: the site being served
// and the user issuing the request. The request middleware creates one
// context per request and passes it down the call chain explicitly, so there
// is no hidden process-wide state. A context must not be shared between
// requests.
type Context struct {
	site    Site
	user    *User
	enabled bool
}

// NewContext returns a security context with security enforcement enabled
// and no site or user resolved yet.
func NewContext() *Context {
	return &Context{
		enabled: true,
	}
}

// Site returns the site of the request, or nil while unresolved.
func (c *Context) Site() Site {
	return c.site
}

// SetSite sets the site of the request.
func (c *Context) SetSite(site Site) {
	c.site = site
}

// RequireSite returns the site of the request, or an illegal state error if
// the middleware did not resolve one. A missing site is a wiring bug, not a
// denial.
func (c *Context) RequireSite() (Site, error) {
	if c.site == nil {
		return nil, NewIllegalState("no site set in security context")
	}

	return c.site, nil
}

// User returns the user of the request. While no user is resolved, or when
// enforcement is disabled, a stand-in is returned: the anonymous guest
// respectively the system administrator.
func (c *Context) User() *User {
	if !c.enabled {
		admin := NewUser("admin", DefaultRealm)
		admin.AddPublicCredentials(SystemAdminRole)

		return admin
	}

	if c.user == nil {
		return NewUser("anonymous", DefaultRealm)
	}

	return c.user
}

// SetUser sets the user of the request.
func (c *Context) SetUser(user *User) {
	c.user = user
}

// IsEnabled returns true if security is enforced. Installations can disable
// enforcement entirely, in which case every request acts as the system
// administrator.
func (c *Context) IsEnabled() bool {
	return c.enabled
}

// SetEnabled toggles security enforcement.
func (c *Context) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Clear drops the site and user. The middleware calls it when request
// handling ends, on every exit path.
func (c *Context) Clear() {
	c.site = nil
	c.user = nil
}
