// Package bolt implements a directory provider persisting its accounts in a
// key/value database, so that users survive restarts without an external
// directory such as LDAP.
package bolt

import (
	"encoding/json"

	"go.entwine.ch/weblounge/directory"
	"go.entwine.ch/weblounge/security"
	"go.entwine.ch/weblounge/store/kv"
	"golang.org/x/xerrors"
)

var usersBucket = []byte("users")

// userRecord is the stored form of an account.
type userRecord struct {
	Login    string   `json:"login"`
	Name     string   `json:"name,omitempty"`
	Password string   `json:"password,omitempty"`
	Digest   string   `json:"digest,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Provider is a directory provider backed by a key/value database. The role
// catalog and the role translations are fixed at construction, only the
// accounts live in the database.
//
// - implements directory.Provider
type Provider struct {
	identifier string
	scope      directory.Scope
	realm      string
	db         kv.DB
	roles      []*security.Role
	system     map[string][]*security.Role
}

// Option is the option type to create a provider.
type Option func(*Provider)

// WithScope is an option to make the provider system-scoped. Providers are
// site-scoped unless told otherwise.
func WithScope(scope directory.Scope) Option {
	return func(p *Provider) {
		p.scope = scope
	}
}

// WithRealm is an option to set the realm assigned to loaded users.
func WithRealm(realm string) Option {
	return func(p *Provider) {
		p.realm = realm
	}
}

// WithRoles is an option to declare the roles known to the provider, on top
// of the built-in system roles.
func WithRoles(roles ...*security.Role) Option {
	return func(p *Provider) {
		p.roles = append(p.roles, roles...)
	}
}

// WithTranslation is an option to declare the system roles implied by a
// local role.
func WithTranslation(local *security.Role, system ...*security.Role) Option {
	return func(p *Provider) {
		p.system[local.String()] = append(p.system[local.String()], system...)
	}
}

// NewProvider returns a provider reading its accounts from the database.
func NewProvider(identifier string, db kv.DB, opts ...Option) (*Provider, error) {
	if identifier == "" {
		return nil, xerrors.New("provider identifier is missing")
	}

	provider := &Provider{
		identifier: identifier,
		scope:      directory.SiteScope,
		realm:      security.DefaultRealm,
		db:         db,
		system:     make(map[string][]*security.Role),
	}

	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// Identifier implements directory.Provider.
func (p *Provider) Identifier() string {
	return p.identifier
}

// Scope implements directory.Provider.
func (p *Provider) Scope() directory.Scope {
	return p.scope
}

// LoadUser implements directory.Provider. It reads the account record and
// rebuilds the user with its roles and password. A database that has never
// stored an account counts as an unknown login, any other database failure
// is propagated.
func (p *Provider) LoadUser(login string, site security.Site) (*security.User, error) {
	var data []byte

	err := p.db.View(usersBucket, func(bucket kv.Bucket) error {
		value := bucket.Get([]byte(login))
		if value != nil {
			data = append([]byte{}, value...)
		}

		return nil
	})
	if err != nil {
		// The bucket does not exist until the first account is stored.
		if xerrors.Is(err, kv.ErrBucketNotFound) {
			return nil, nil
		}

		return nil, xerrors.Errorf("failed to read account '%s': %v", login, err)
	}

	if data == nil {
		return nil, nil
	}

	record := userRecord{}
	err = json.Unmarshal(data, &record)
	if err != nil {
		return nil, xerrors.Errorf("malformed record for '%s': %v", login, err)
	}

	return p.userOf(record)
}

// SaveUser stores the user as an account record. The roles amongst the
// public credentials and the first password amongst the private credentials
// are persisted.
func (p *Provider) SaveUser(user *security.User) error {
	record := userRecord{
		Login: user.Login(),
		Name:  user.Name(),
	}

	for _, role := range user.Roles() {
		if role.Equal(security.GuestRole) {
			continue
		}

		record.Roles = append(record.Roles, role.String())
	}

	if passwords := user.Passwords(); len(passwords) > 0 {
		record.Password = passwords[0].Value()
		record.Digest = passwords[0].Digest().String()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return xerrors.Errorf("failed to marshal record: %v", err)
	}

	return p.db.Update(usersBucket, func(bucket kv.Bucket) error {
		return bucket.Set([]byte(record.Login), data)
	})
}

// RemoveUser deletes the account record of the login.
func (p *Provider) RemoveUser(login string) error {
	return p.db.Update(usersBucket, func(bucket kv.Bucket) error {
		return bucket.Delete([]byte(login))
	})
}

// Logins returns the logins of all stored accounts. A database that has
// never stored an account yields an empty list, any other database failure
// is propagated.
func (p *Provider) Logins() ([]string, error) {
	var logins []string

	err := p.db.View(usersBucket, func(bucket kv.Bucket) error {
		return bucket.ForEach(func(k, v []byte) error {
			logins = append(logins, string(k))
			return nil
		})
	})
	if err != nil {
		if xerrors.Is(err, kv.ErrBucketNotFound) {
			return nil, nil
		}

		return nil, xerrors.Errorf("failed to list accounts: %v", err)
	}

	return logins, nil
}

// Roles implements directory.Provider.
func (p *Provider) Roles() []*security.Role {
	return append([]*security.Role{}, p.roles...)
}

// LocalRole implements directory.Provider.
func (p *Provider) LocalRole(system *security.Role) *security.Role {
	for _, role := range p.roles {
		for _, s := range p.system[role.String()] {
			if s.Equal(system) {
				return role
			}
		}
	}

	return nil
}

// SystemRoles implements directory.Provider.
func (p *Provider) SystemRoles(local *security.Role) []*security.Role {
	return append([]*security.Role{}, p.system[local.String()]...)
}

func (p *Provider) userOf(record userRecord) (*security.User, error) {
	user := security.NewUser(record.Login, p.realm)
	user.SetName(record.Name)

	for _, name := range record.Roles {
		role := p.lookupRole(name)
		if role == nil {
			return nil, xerrors.Errorf("account '%s' references unknown role '%s'",
				record.Login, name)
		}

		user.AddPublicCredentials(role)
	}

	if record.Password != "" {
		digest := security.PlainDigest
		if record.Digest != "" {
			var err error
			digest, err = security.ParseDigestType(record.Digest)
			if err != nil {
				return nil, xerrors.Errorf("account '%s': %v", record.Login, err)
			}
		}

		user.AddPrivateCredentials(security.NewPassword(record.Password, digest))
	}

	return user, nil
}

func (p *Provider) lookupRole(name string) *security.Role {
	for _, role := range p.roles {
		if role.String() == name {
			return role
		}
	}

	for _, role := range security.SystemRoles() {
		if role.String() == name {
			return role
		}
	}

	return nil
}
