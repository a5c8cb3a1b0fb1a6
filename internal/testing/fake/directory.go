package fake

import (
	"go.entwine.ch/weblounge/directory"
	"go.entwine.ch/weblounge/security"
)

// DirectoryProvider is a fake implementation of directory.Provider serving a
// static set of users. It can be set up to fail or to panic on lookups.
type DirectoryProvider struct {
	ID        string
	ProvScope directory.Scope
	Users     map[string]*security.User
	RoleSet   []*security.Role
	Trans     map[string][]*security.Role
	Err       error
	Panics    bool
	LoadCall  *Call
}

// NewDirectoryProvider returns a fake provider serving the users.
func NewDirectoryProvider(id string, users ...*security.User) *DirectoryProvider {
	index := make(map[string]*security.User)
	for _, user := range users {
		index[user.Login()] = user
	}

	return &DirectoryProvider{
		ID:        id,
		ProvScope: directory.SiteScope,
		Users:     index,
		Trans:     make(map[string][]*security.Role),
	}
}

// NewBadDirectoryProvider returns a fake provider failing on lookups.
func NewBadDirectoryProvider(id string) *DirectoryProvider {
	p := NewDirectoryProvider(id)
	p.Err = fakeErr
	return p
}

// Identifier implements directory.Provider.
func (p *DirectoryProvider) Identifier() string {
	return p.ID
}

// Scope implements directory.Provider.
func (p *DirectoryProvider) Scope() directory.Scope {
	return p.ProvScope
}

// LoadUser implements directory.Provider.
func (p *DirectoryProvider) LoadUser(login string, site security.Site) (*security.User, error) {
	if p.LoadCall != nil {
		p.LoadCall.Add(login, site)
	}

	if p.Panics {
		panic("oops")
	}

	if p.Err != nil {
		return nil, p.Err
	}

	return p.Users[login], nil
}

// Roles implements directory.Provider.
func (p *DirectoryProvider) Roles() []*security.Role {
	return append([]*security.Role{}, p.RoleSet...)
}

// LocalRole implements directory.Provider.
func (p *DirectoryProvider) LocalRole(system *security.Role) *security.Role {
	for _, role := range p.RoleSet {
		for _, s := range p.Trans[role.String()] {
			if s.Equal(system) {
				return role
			}
		}
	}

	return nil
}

// SystemRoles implements directory.Provider.
func (p *DirectoryProvider) SystemRoles(local *security.Role) []*security.Role {
	return append([]*security.Role{}, p.Trans[local.String()]...)
}
