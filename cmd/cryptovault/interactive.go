package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"cryptovault/internal/fn"
	"cryptovault/pkg/cipher"
	"cryptovault/pkg/engine"
)

var interactiveCommand = &cli.Command{
	Name:    "interactive",
	Aliases: []string{"i"},
	Usage:   "menu driven encrypt/decrypt session",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "cipher `METHOD`", Value: cipher.MethodCaesar},
	},
	Action: func(c *cli.Context) error {
		return runInteractive(c.App.Reader, c.App.Writer, engine.New(nil), c.String("method"))
	},
}

// runInteractive loops over a text menu until the user exits or input ends.
// Messages span several lines and end with a line holding a single ".".
func runInteractive(in io.Reader, out io.Writer, eng *engine.Engine, method string) error {
	sc := bufio.NewScanner(in)
	readLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	fmt.Fprintf(out, "cryptovault interactive (%s)\n", method)
	for {
		fmt.Fprint(out, "\nMenu:\n  1) Encrypt\n  2) Decrypt\n  3) Exit\nChoose an option (1-3): ")
		choice, ok := readLine()
		if !ok {
			fmt.Fprintln(out)
			return sc.Err()
		}
		choice = strings.ToLower(strings.TrimSpace(choice))
		var dir engine.Direction
		switch choice {
		case "1", "encrypt":
			dir = engine.Encrypt
		case "2", "decrypt":
			dir = engine.Decrypt
		case "3", "exit", "quit":
			fmt.Fprintln(out, "Exiting.")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Try again.")
			continue
		}

		fmt.Fprintln(out, "Enter the message. End input with a single line containing only '.'")
		var lines []string
		for {
			line, ok := readLine()
			if !ok || line == "." {
				break
			}
			lines = append(lines, line)
		}
		fmt.Fprint(out, "Enter integer key: ")
		key, _ := readLine()

		res, err := eng.TransformRaw(strings.Join(lines, "\n"), key, method, dir)
		if err != nil {
			fmt.Fprintf(out, "%v. Operation cancelled.\n", err)
			continue
		}
		label := fn.T(dir == engine.Encrypt, "Encrypted", "Decrypted")
		fmt.Fprintf(out, "\n--- %s Message ---\n%s\n--- End ---\n", label, res)
	}
}
