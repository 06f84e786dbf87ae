package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"cryptovault/pkg/cipher"
	"cryptovault/pkg/client"
	"cryptovault/pkg/engine"
)

func remoteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "service base `URL`",
			Value:   client.DefaultBaseURL,
			EnvVars: []string{"CRYPTOVAULT_ADDR"},
		},
		&cli.DurationFlag{Name: "timeout", Usage: "request timeout", Value: client.DefaultTimeout},
	}
}

var remoteCommand = &cli.Command{
	Name:  "remote",
	Usage: "call a running service",
	Subcommands: []*cli.Command{
		newRemoteTransformCommand(engine.Encrypt),
		newRemoteTransformCommand(engine.Decrypt),
		{
			Name:  "methods",
			Usage: "list the methods the service supports",
			Flags: remoteFlags(),
			Action: func(c *cli.Context) error {
				methods, err := remoteClient(c).Methods(c.Context)
				if err != nil {
					return cli.Exit(render(err), 1)
				}
				fmt.Fprintln(c.App.Writer, strings.Join(methods, "\n"))
				return nil
			},
		},
	},
}

func newRemoteTransformCommand(dir engine.Direction) *cli.Command {
	return &cli.Command{
		Name:      dir.String(),
		Usage:     dir.String() + " a message through the service",
		ArgsUsage: "[message...]  (read from stdin when omitted)",
		Flags: append([]cli.Flag{
			&cli.Int64Flag{Name: "key", Aliases: []string{"k"}, Usage: "integer `KEY`", Required: true},
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "cipher `METHOD`", Value: cipher.MethodCaesar},
		}, remoteFlags()...),
		Action: func(c *cli.Context) error {
			msg, err := readMessage(c.Args().Slice(), c.App.Reader)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error reading message: %v", err), 1)
			}
			cl := remoteClient(c)
			var out string
			if dir == engine.Encrypt {
				out, err = cl.Encrypt(c.Context, msg, c.Int64("key"), c.String("method"))
			} else {
				out, err = cl.Decrypt(c.Context, msg, c.Int64("key"), c.String("method"))
			}
			if err != nil {
				return cli.Exit(render(err), 1)
			}
			fmt.Fprintln(c.App.Writer, out)
			return nil
		},
	}
}

func remoteClient(c *cli.Context) *client.Client {
	return client.New(c.String("addr"), client.WithTimeout(c.Duration("timeout")))
}

// render formats a client failure the way the web front end shows it.
func render(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, client.ErrTransport):
		return "Request failed: " + strings.TrimPrefix(err.Error(), client.ErrTransport.Error()+": ")
	}
	return err.Error()
}

