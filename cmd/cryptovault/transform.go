package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"cryptovault/pkg/cipher"
	"cryptovault/pkg/engine"
)

var (
	encryptCommand = newTransformCommand(engine.Encrypt)
	decryptCommand = newTransformCommand(engine.Decrypt)
)

func newTransformCommand(dir engine.Direction) *cli.Command {
	return &cli.Command{
		Name:      dir.String(),
		Usage:     dir.String() + " a message locally",
		ArgsUsage: "[message...]  (read from stdin when omitted)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "integer `KEY`", Required: true},
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "cipher `METHOD`", Value: cipher.MethodCaesar},
		},
		Action: func(c *cli.Context) error {
			msg, err := readMessage(c.Args().Slice(), c.App.Reader)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error reading message: %v", err), 1)
			}
			out, err := engine.New(nil).TransformRaw(msg, c.String("key"), c.String("method"), dir)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(c.App.Writer, out)
			return nil
		},
	}
}

// readMessage joins args with spaces, or reads all of in when there are no
// args. One trailing newline is dropped from stdin input.
func readMessage(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if in == nil {
		return "", nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	s := strings.TrimSuffix(string(b), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
