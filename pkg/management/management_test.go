package management

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"cryptovault/pkg/engine"
)

type fixedCounter int64

func (f fixedCounter) Served() int64 { return int64(f) }

func startServer(t *testing.T, password string) (*Server, string) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "mgmt.sock")
	s := NewServer(sock, password)
	s.RegisterEngine(engine.New(nil), fixedCounter(1234))
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(s.Stop)
	return s, sock
}

func TestPingAndHelp(t *testing.T) {
	_, sock := startServer(t, "")
	c := NewClient(sock, "")
	if !c.IsServerStarted() {
		t.Fatal("Expected server to answer ping")
	}
	res, err := c.SendCommand("")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, cmd := range []string{"encrypt", "decrypt", "methods", "status", "logs"} {
		if !strings.Contains(res, cmd) {
			t.Fatalf("help output misses %s:\n%s", cmd, res)
		}
	}
}

func TestEngineCommands(t *testing.T) {
	_, sock := startServer(t, "")
	c := NewClient(sock, "")

	res, err := c.SendCommand("encrypt 3 caesar Hello, World!")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if res != "Khoor, Zruog!" {
		t.Fatalf("Expected Khoor, Zruog!, got %q", res)
	}
	res, _ = c.SendCommand("DECRYPT -1 caesar zabWXY")
	if res != "abcXYZ" {
		t.Fatalf("Expected abcXYZ, got %q", res)
	}
	res, _ = c.SendCommand("encrypt abc caesar hi")
	if !strings.HasPrefix(res, "ERR: encrypt: invalid key") {
		t.Fatalf("Expected invalid key error, got %q", res)
	}
	res, _ = c.SendCommand("methods")
	if res != "OK: caesar" {
		t.Fatalf("Unexpected methods response %q", res)
	}
	res, _ = c.SendCommand("status")
	if !strings.Contains(res, "1,234 transformations served") {
		t.Fatalf("Unexpected status %q", res)
	}
	res, _ = c.SendCommand("frobnicate")
	if !strings.HasPrefix(res, "ERR: unknown command") {
		t.Fatalf("Unexpected response %q", res)
	}
}

func TestPassword(t *testing.T) {
	_, sock := startServer(t, "s3cret")
	if _, err := NewClient(sock, "wrong").SendCommand("ping"); err == nil {
		t.Fatal("Expected auth failure")
	}
	if !NewClient(sock, "s3cret").IsServerStarted() {
		t.Fatal("Expected ping with the right password to succeed")
	}
}

func TestMessageFraming(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	msg := "line one\n.hidden\n..double"
	if err := writeMessage(w, msg); err != nil {
		t.Fatalf("writeMessage failed: %v", err)
	}
	got, err := recvMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("recvMessage failed: %v", err)
	}
	if got != msg {
		t.Fatalf("Expected %q, got %q", msg, got)
	}
}
