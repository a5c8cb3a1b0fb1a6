// Package main implements a command line tool to inspect security
// definitions, evaluate access decisions and manage directory accounts.
package main

import (
	"io"
	"os"

	urfave "github.com/urfave/cli/v2"
)

func main() {
	app := makeApp(os.Stdout)

	err := app.Run(os.Args)
	if err != nil {
		panic(err)
	}
}

func makeApp(out io.Writer) *urfave.App {
	app := &urfave.App{
		Name:   "wlsec",
		Usage:  "inspect and evaluate access control definitions",
		Writer: out,
		Commands: []*urfave.Command{
			{
				Name:      "validate",
				Usage:     "parse a security definition and print its summary",
				ArgsUsage: "<file>",
				Action:    validateAction,
			},
			{
				Name:  "check",
				Usage: "evaluate an access decision against a security definition",
				Flags: []urfave.Flag{
					&urfave.StringFlag{
						Name:     "file",
						Usage:    "path to the security definition",
						Required: true,
					},
					&urfave.StringFlag{
						Name:     "action",
						Usage:    "action to evaluate as context:identifier",
						Required: true,
					},
					&urfave.StringFlag{
						Name:  "login",
						Usage: "login of the caller, anonymous when omitted",
					},
					&urfave.StringSliceFlag{
						Name:  "role",
						Usage: "role of the caller as context:identifier",
					},
				},
				Action: checkAction,
			},
			{
				Name:  "filter",
				Usage: "print the index filter restricting a query to permitted documents",
				Flags: []urfave.Flag{
					&urfave.StringSliceFlag{
						Name:     "action",
						Usage:    "action to filter for as context:identifier",
						Required: true,
					},
					&urfave.StringFlag{
						Name:  "login",
						Usage: "login of the caller, anonymous when omitted",
					},
					&urfave.StringSliceFlag{
						Name:  "role",
						Usage: "role of the caller as context:identifier",
					},
				},
				Action: filterAction,
			},
			{
				Name:      "roles",
				Usage:     "list the roles declared by a directory configuration",
				ArgsUsage: "<config>",
				Action:    rolesAction,
			},
			{
				Name:  "account",
				Usage: "manage the accounts of a database backed directory",
				Flags: []urfave.Flag{
					&urfave.StringFlag{
						Name:     "db",
						Usage:    "path to the account database",
						Required: true,
					},
				},
				Subcommands: []*urfave.Command{
					{
						Name:  "add",
						Usage: "store an account",
						Flags: []urfave.Flag{
							&urfave.StringFlag{
								Name:     "login",
								Required: true,
							},
							&urfave.StringFlag{
								Name: "name",
							},
							&urfave.StringFlag{
								Name: "password",
							},
							&urfave.StringSliceFlag{
								Name:  "role",
								Usage: "role of the account as context:identifier",
							},
						},
						Action: accountAddAction,
					},
					{
						Name:      "remove",
						Usage:     "delete an account",
						ArgsUsage: "<login>",
						Action:    accountRemoveAction,
					},
					{
						Name:   "list",
						Usage:  "print the stored logins",
						Action: accountListAction,
					},
				},
			},
		},
	}

	return app
}
