package server

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ListenAddr != ":8000" || cfg.BodyLimit != "1M" || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.yaml")
	yaml := "listen_address: \"127.0.0.1:9000\"\nshutdown_timeout: 2s\ncors_origins:\n  - http://localhost:5173\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CRYPTOVAULT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Fatalf("Expected listen address from file, got %s", cfg.ListenAddr)
	}
	if cfg.ShutdownTimeout != 2*time.Second {
		t.Fatalf("Expected 2s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("Expected log level from env, got %s", cfg.LogLevel)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("Unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.ConfigFile != path {
		t.Fatalf("Expected config file %s, got %s", path, cfg.ConfigFile)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BodyLimit = "lots"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	cfg = DefaultConfig()
	cfg.ListenAddr = ""
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}
