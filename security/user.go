package security

// DefaultRealm is the realm assigned to users when no other realm is known.
const DefaultRealm = SystemContext

// User is a login known to one or several directories. Public credentials
// carry the roles assigned to the user, private credentials carry secrets
// such as passwords. Several directories can contribute credentials to the
// same user, see the directory package.
type User struct {
	login   string
	realm   string
	name    string
	public  []interface{}
	private []interface{}
}

// NewUser returns a user with the given login and realm. The guest role is
// always part of the public credentials, so that the user can obtain
// everything that is publicly available.
func NewUser(login, realm string) *User {
	user := &User{
		login: login,
		realm: realm,
	}

	user.AddPublicCredentials(GuestRole)

	return user
}

// Login returns the login of the user.
func (u *User) Login() string {
	return u.login
}

// Realm returns the realm the user was loaded from.
func (u *User) Realm() string {
	return u.realm
}

// Name returns the display name of the user, or the empty string.
func (u *User) Name() string {
	return u.name
}

// SetName sets the display name of the user.
func (u *User) SetName(name string) {
	u.name = name
}

// AddPublicCredentials adds the credentials to the set of public credentials.
// Roles are deduplicated by value equality, so the same role contributed by
// two directories is recorded only once.
func (u *User) AddPublicCredentials(creds ...interface{}) {
	for _, cred := range creds {
		if role, ok := cred.(*Role); ok && u.HasRole(role) {
			continue
		}

		u.public = append(u.public, cred)
	}
}

// PublicCredentials returns the public credentials of the user.
func (u *User) PublicCredentials() []interface{} {
	return append([]interface{}{}, u.public...)
}

// AddPrivateCredentials adds the credentials to the set of private
// credentials.
func (u *User) AddPrivateCredentials(creds ...interface{}) {
	u.private = append(u.private, creds...)
}

// PrivateCredentials returns the private credentials of the user.
func (u *User) PrivateCredentials() []interface{} {
	return append([]interface{}{}, u.private...)
}

// Passwords returns the passwords amongst the private credentials.
func (u *User) Passwords() []Password {
	var passwords []Password
	for _, cred := range u.private {
		if p, ok := cred.(Password); ok {
			passwords = append(passwords, p)
		}
	}

	return passwords
}

// Roles returns the roles amongst the public credentials.
func (u *User) Roles() []*Role {
	var roles []*Role
	for _, cred := range u.public {
		if role, ok := cred.(*Role); ok {
			roles = append(roles, role)
		}
	}

	return roles
}

// HasRole returns true if the role is part of the closure of any of the
// user's roles.
func (u *User) HasRole(role *Role) bool {
	for _, held := range u.Roles() {
		if held.Implies(role) {
			return true
		}
	}

	return false
}

// Authenticated returns true if the user holds any role beyond the implicit
// guest role.
func (u *User) Authenticated() bool {
	for _, role := range u.Roles() {
		if !role.Equal(GuestRole) {
			return true
		}
	}

	return false
}

// Authority returns the user as an authority value.
func (u *User) Authority() Authority {
	return NewAuthority(UserType, u.login)
}

// String returns the login and realm of the user.
func (u *User) String() string {
	return u.login + "@" + u.realm
}
