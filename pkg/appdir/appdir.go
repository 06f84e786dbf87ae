// Package appdir locates the per-user state directory (~/.cryptovault) that
// holds the log store.
package appdir

import (
	"os"
	"path/filepath"
)

const dirName = ".cryptovault"

// Dir returns the application directory. When the home directory cannot be
// resolved it falls back to the working directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// Ensure creates Dir if needed and returns it.
func Ensure() (string, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path resolves a bare file name inside the application directory. Names with
// a directory component are returned unchanged.
func Path(name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(Dir(), name)
}
