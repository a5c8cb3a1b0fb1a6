package directory

import (
	"io"
	"io/ioutil"

	"go.entwine.ch/weblounge/security"
	"golang.org/x/xerrors"
	yaml "gopkg.in/yaml.v2"
)

// RoleConfig declares one role of an in-memory provider. Implied roles and
// system translations are referenced by their string form "context:id".
type RoleConfig struct {
	Name    string   `yaml:"name"`
	Implies []string `yaml:"implies"`
	System  []string `yaml:"system"`
}

// AccountConfig declares one account of an in-memory provider.
type AccountConfig struct {
	Login    string   `yaml:"login"`
	Name     string   `yaml:"name"`
	Password string   `yaml:"password"`
	Digest   string   `yaml:"digest"`
	Roles    []string `yaml:"roles"`
}

// Config declares an in-memory provider.
type Config struct {
	Identifier string          `yaml:"identifier"`
	Scope      string          `yaml:"scope"`
	Realm      string          `yaml:"realm"`
	Roles      []RoleConfig    `yaml:"roles"`
	Accounts   []AccountConfig `yaml:"accounts"`
}

// LoadConfig reads a YAML provider declaration.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := Config{}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return cfg, xerrors.Errorf("failed to read: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, xerrors.Errorf("failed to decode config: %v", err)
	}

	return cfg, nil
}

// InMemoryProvider is a directory provider entirely defined by its
// configuration. It is the provider of choice for small sites and for
// bootstrapping an installation before a database is around.
//
// - implements directory.Provider
type InMemoryProvider struct {
	identifier string
	scope      Scope
	realm      string
	roles      []*security.Role
	system     map[string][]*security.Role
	accounts   map[string]AccountConfig
}

// NewInMemoryProvider builds a provider from its configuration. Role
// declarations may reference previously declared roles and the built-in
// system roles.
func NewInMemoryProvider(cfg Config) (*InMemoryProvider, error) {
	provider := &InMemoryProvider{
		identifier: cfg.Identifier,
		realm:      cfg.Realm,
		system:     make(map[string][]*security.Role),
		accounts:   make(map[string]AccountConfig),
	}

	if provider.identifier == "" {
		return nil, xerrors.New("provider identifier is missing")
	}

	if provider.realm == "" {
		provider.realm = security.DefaultRealm
	}

	switch cfg.Scope {
	case "system":
		provider.scope = SystemScope
	case "site", "":
		provider.scope = SiteScope
	default:
		return nil, xerrors.Errorf("unknown scope '%s'", cfg.Scope)
	}

	for _, rc := range cfg.Roles {
		role, err := provider.buildRole(rc)
		if err != nil {
			return nil, xerrors.Errorf("role '%s': %v", rc.Name, err)
		}

		provider.roles = append(provider.roles, role)
	}

	for _, account := range cfg.Accounts {
		if account.Login == "" {
			return nil, xerrors.New("account login is missing")
		}

		provider.accounts[account.Login] = account
	}

	return provider, nil
}

// Identifier implements directory.Provider.
func (p *InMemoryProvider) Identifier() string {
	return p.identifier
}

// Scope implements directory.Provider.
func (p *InMemoryProvider) Scope() Scope {
	return p.scope
}

// LoadUser implements directory.Provider. It returns the configured account
// with its roles and password, or nil for unknown logins.
func (p *InMemoryProvider) LoadUser(login string, site security.Site) (*security.User, error) {
	account, ok := p.accounts[login]
	if !ok {
		return nil, nil
	}

	user := security.NewUser(account.Login, p.realm)
	user.SetName(account.Name)

	for _, name := range account.Roles {
		role := p.lookupRole(name)
		if role == nil {
			return nil, xerrors.Errorf("account '%s' references unknown role '%s'",
				login, name)
		}

		user.AddPublicCredentials(role)
	}

	if account.Password != "" {
		digest := security.PlainDigest
		if account.Digest != "" {
			var err error
			digest, err = security.ParseDigestType(account.Digest)
			if err != nil {
				return nil, xerrors.Errorf("account '%s': %v", login, err)
			}
		}

		user.AddPrivateCredentials(security.NewPassword(account.Password, digest))
	}

	return user, nil
}

// Roles implements directory.Provider.
func (p *InMemoryProvider) Roles() []*security.Role {
	return append([]*security.Role{}, p.roles...)
}

// LocalRole implements directory.Provider. It returns the first declared
// role translating to the given system role.
func (p *InMemoryProvider) LocalRole(system *security.Role) *security.Role {
	for _, role := range p.roles {
		for _, s := range p.system[role.String()] {
			if s.Equal(system) {
				return role
			}
		}
	}

	return nil
}

// SystemRoles implements directory.Provider. It returns the system roles the
// local role translates to.
func (p *InMemoryProvider) SystemRoles(local *security.Role) []*security.Role {
	return append([]*security.Role{}, p.system[local.String()]...)
}

func (p *InMemoryProvider) buildRole(rc RoleConfig) (*security.Role, error) {
	context, identifier, err := splitRoleName(rc.Name)
	if err != nil {
		return nil, err
	}

	var implies []*security.Role
	for _, name := range rc.Implies {
		implied := p.lookupRole(name)
		if implied == nil {
			return nil, xerrors.Errorf("implied role '%s' is not declared", name)
		}

		implies = append(implies, implied)
	}

	role := security.NewRole(context, identifier, implies...)

	for _, name := range rc.System {
		system := lookupSystemRole(name)
		if system == nil {
			return nil, xerrors.Errorf("unknown system role '%s'", name)
		}

		p.system[role.String()] = append(p.system[role.String()], system)
	}

	return role, nil
}

// lookupRole resolves a role name against the declared roles and the
// built-in system roles.
func (p *InMemoryProvider) lookupRole(name string) *security.Role {
	for _, role := range p.roles {
		if role.String() == name {
			return role
		}
	}

	return lookupSystemRole(name)
}

func lookupSystemRole(name string) *security.Role {
	for _, role := range security.SystemRoles() {
		if role.String() == name {
			return role
		}
	}

	return nil
}

func splitRoleName(name string) (string, string, error) {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			if i == 0 || i == len(name)-1 {
				break
			}

			return name[:i], name[i+1:], nil
		}
	}

	return "", "", xerrors.Errorf("malformed role name '%s'", name)
}
