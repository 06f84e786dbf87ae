package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"cryptovault/pkg/management"
)

var ctlCommand = &cli.Command{
	Name:      "ctl",
	Usage:     "send a command to a running service over its management socket",
	ArgsUsage: "[command [args...]]  (default: help)",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "socket", Usage: "management socket `PATH` (defaults to the configured one)"},
		&cli.StringFlag{Name: "password", Usage: "management password", EnvVars: []string{"CRYPTOVAULT_MANAGEMENT_PASSWORD"}},
	},
	Action: ctlCmd,
}

func ctlCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	socket := cfg.ManagementSocket
	if c.IsSet("socket") {
		socket = c.String("socket")
	}
	password := cfg.ManagementPassword
	if c.IsSet("password") {
		password = c.String("password")
	}

	res, err := management.NewClient(socket, password).SendCommand(strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintln(c.App.Writer, res)
	if strings.HasPrefix(res, "ERR:") {
		return cli.Exit("", 1)
	}
	return nil
}
