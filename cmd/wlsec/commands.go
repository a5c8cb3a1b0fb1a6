package main

import (
	"fmt"
	"os"
	"strings"

	urfave "github.com/urfave/cli/v2"
	"go.entwine.ch/weblounge/directory"
	"go.entwine.ch/weblounge/directory/bolt"
	"go.entwine.ch/weblounge/search"
	"go.entwine.ch/weblounge/security"
	securityxml "go.entwine.ch/weblounge/security/xml"
	jsonserde "go.entwine.ch/weblounge/serde/json"
	"go.entwine.ch/weblounge/store/kv"
	"golang.org/x/xerrors"
)

func validateAction(c *urfave.Context) error {
	if c.NArg() != 1 {
		return xerrors.New("expect the path of the security definition")
	}

	acl, err := readACL(c.Args().First())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "order: %s\n", acl.Order())

	if owner := acl.Owner(); owner != nil {
		fmt.Fprintf(c.App.Writer, "owner: %s\n", owner)
	}

	if acl.IsDefaultAccess() {
		fmt.Fprintln(c.App.Writer, "no rules, default access applies")
		return nil
	}

	for _, rule := range acl.Rules() {
		fmt.Fprintf(c.App.Writer, "%s %s to %s\n", rule.Rule, rule.Action, rule.Authority)
	}

	return nil
}

func checkAction(c *urfave.Context) error {
	acl, err := readACL(c.String("file"))
	if err != nil {
		return err
	}

	action, err := security.ParseAction(c.String("action"))
	if err != nil {
		return err
	}

	user, err := makeUser(c.String("login"), c.StringSlice("role"))
	if err != nil {
		return err
	}

	err = security.Check(acl, action, user, c.String("file"))
	if err != nil {
		if security.IsPermissionError(err) {
			fmt.Fprintf(c.App.Writer, "denied: %v\n", err)
			return nil
		}

		return xerrors.Errorf("failed to evaluate: %v", err)
	}

	fmt.Fprintln(c.App.Writer, "allowed")

	return nil
}

func filterAction(c *urfave.Context) error {
	actions := make([]security.Action, len(c.StringSlice("action")))
	for i, value := range c.StringSlice("action") {
		action, err := security.ParseAction(value)
		if err != nil {
			return err
		}

		actions[i] = action
	}

	user, err := makeUser(c.String("login"), c.StringSlice("role"))
	if err != nil {
		return err
	}

	filter := search.AccessFilter(user, actions...)

	data, err := filter.Serialize(jsonserde.NewContext())
	if err != nil {
		return xerrors.Errorf("failed to serialize filter: %v", err)
	}

	fmt.Fprintln(c.App.Writer, string(data))

	return nil
}

func rolesAction(c *urfave.Context) error {
	if c.NArg() != 1 {
		return xerrors.New("expect the path of the directory configuration")
	}

	file, err := os.Open(c.Args().First())
	if err != nil {
		return xerrors.Errorf("failed to open configuration: %v", err)
	}

	defer file.Close()

	cfg, err := directory.LoadConfig(file)
	if err != nil {
		return err
	}

	provider, err := directory.NewInMemoryProvider(cfg)
	if err != nil {
		return err
	}

	for _, role := range provider.Roles() {
		fmt.Fprintln(c.App.Writer, role)
	}

	return nil
}

func accountAddAction(c *urfave.Context) error {
	provider, db, err := openProvider(c)
	if err != nil {
		return err
	}

	defer db.Close()

	user := security.NewUser(c.String("login"), security.DefaultRealm)
	user.SetName(c.String("name"))

	for _, value := range c.StringSlice("role") {
		role, err := parseRole(value)
		if err != nil {
			return err
		}

		user.AddPublicCredentials(role)
	}

	if password := c.String("password"); password != "" {
		user.AddPrivateCredentials(security.NewPassword(password, security.PlainDigest))
	}

	err = provider.SaveUser(user)
	if err != nil {
		return xerrors.Errorf("failed to store account: %v", err)
	}

	return nil
}

func accountRemoveAction(c *urfave.Context) error {
	if c.NArg() != 1 {
		return xerrors.New("expect the login to remove")
	}

	provider, db, err := openProvider(c)
	if err != nil {
		return err
	}

	defer db.Close()

	return provider.RemoveUser(c.Args().First())
}

func accountListAction(c *urfave.Context) error {
	provider, db, err := openProvider(c)
	if err != nil {
		return err
	}

	defer db.Close()

	logins, err := provider.Logins()
	if err != nil {
		return err
	}

	for _, login := range logins {
		fmt.Fprintln(c.App.Writer, login)
	}

	return nil
}

func openProvider(c *urfave.Context) (*bolt.Provider, kv.DB, error) {
	db, err := kv.New(c.String("db"))
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to open database: %v", err)
	}

	provider, err := bolt.NewProvider("wlsec", db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return provider, db, nil
}

func readACL(path string) (*security.ACL, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open definition: %v", err)
	}

	defer file.Close()

	return securityxml.Read(file)
}

func makeUser(login string, roles []string) (*security.User, error) {
	if login == "" && len(roles) == 0 {
		return nil, nil
	}

	if login == "" {
		login = "anonymous"
	}

	user := security.NewUser(login, security.DefaultRealm)

	for _, value := range roles {
		role, err := parseRole(value)
		if err != nil {
			return nil, err
		}

		user.AddPublicCredentials(role)
	}

	return user, nil
}

func parseRole(value string) (*security.Role, error) {
	context, identifier, found := strings.Cut(value, ":")
	if !found {
		return security.NewRole(security.SystemContext, value), nil
	}

	if context == "" || identifier == "" {
		return nil, xerrors.Errorf("malformed role '%s'", value)
	}

	return security.NewRole(context, identifier), nil
}
