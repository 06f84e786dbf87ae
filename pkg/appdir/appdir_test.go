package appdir

import (
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got, want := Path("logs.db"), filepath.Join("/home/tester", dirName, "logs.db"); got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}
	if got := Path("/var/lib/cv/logs.db"); got != "/var/lib/cv/logs.db" {
		t.Fatalf("Absolute path changed: %s", got)
	}
	if got := Path("data/logs.db"); got != "data/logs.db" {
		t.Fatalf("Relative path with directory changed: %s", got)
	}
}

func TestEnsure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir, err := Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if filepath.Base(dir) != dirName {
		t.Fatalf("Unexpected dir %s", dir)
	}
}
