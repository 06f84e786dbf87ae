package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"cryptovault/pkg/engine"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"cryptovault"}, args...))
	return out.String(), err
}

func TestEncryptDecryptCommands(t *testing.T) {
	out, err := runApp(t, "", "encrypt", "--key", "3", "Hello,", "World!")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if out != "Khoor, Zruog!\n" {
		t.Fatalf("Unexpected output %q", out)
	}

	out, err = runApp(t, "Khoor, Zruog!\n", "decrypt", "-k", "3")
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if out != "Hello, World!\n" {
		t.Fatalf("Unexpected output %q", out)
	}

	out, err = runApp(t, "", "encrypt", "--key=-1", "abcXYZ")
	if err != nil || out != "zabWXY\n" {
		t.Fatalf("Unexpected result %q, %v", out, err)
	}

	if _, err := runApp(t, "", "encrypt", "--key", "abc", "hi"); err == nil || !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("Expected invalid key error, got %v", err)
	}
	if _, err := runApp(t, "", "encrypt", "--key", "1", "--method", "vigenere", "hi"); err == nil || !strings.Contains(err.Error(), "unknown method") {
		t.Fatalf("Expected unknown method error, got %v", err)
	}
}

func TestRunInteractive(t *testing.T) {
	in := strings.Join([]string{
		"9",
		"1", "Hello,", "World!", ".", "3",
		"2", "Khoor", ".", "x",
		"decrypt", "Khoor", ".", "29",
		"3",
	}, "\n") + "\n"
	var out bytes.Buffer
	if err := runInteractive(strings.NewReader(in), &out, engine.New(nil), "caesar"); err != nil {
		t.Fatalf("runInteractive failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Invalid choice. Try again.",
		"--- Encrypted Message ---\nKhoor,\nZruog!\n--- End ---",
		"invalid key",
		"--- Decrypted Message ---\nHello\n--- End ---",
		"Exiting.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Output misses %q:\n%s", want, got)
		}
	}
}

func TestRunInteractiveEOF(t *testing.T) {
	var out bytes.Buffer
	if err := runInteractive(strings.NewReader("1\nabc\n"), &out, engine.New(nil), "caesar"); err != nil {
		t.Fatalf("Expected clean exit on EOF, got %v", err)
	}
}

func TestReadMessage(t *testing.T) {
	if got, _ := readMessage([]string{"a", "b"}, nil); got != "a b" {
		t.Fatalf("Expected 'a b', got %q", got)
	}
	if got, _ := readMessage(nil, strings.NewReader("line1\nline2\r\n")); got != "line1\nline2" {
		t.Fatalf("Unexpected stdin message %q", got)
	}
}

func TestParseTimeSpec(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"1h":                   now.Add(-time.Hour),
		"2d":                   now.Add(-48 * time.Hour),
		"1w":                   now.Add(-7 * 24 * time.Hour),
		"2023-10-27T15:04:05Z": time.Date(2023, 10, 27, 15, 4, 5, 0, time.UTC),
	}
	for spec, want := range cases {
		got, err := parseTimeSpec(spec, now)
		if err != nil {
			t.Fatalf("parseTimeSpec(%q) failed: %v", spec, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseTimeSpec(%q): expected %s, got %s", spec, want, got)
		}
	}
	if _, err := parseTimeSpec("yesterday", now); err == nil {
		t.Fatal("Expected error for 'yesterday'")
	}
	if _, err := parseTimeSpec("xd", now); err == nil {
		t.Fatal("Expected error for 'xd'")
	}
}
