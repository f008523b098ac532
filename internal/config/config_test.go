package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.json")
	doc := `{
	  "primary_host": "https://assets.example",
	  "target_height": 2.8,
	  "workers": 4
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{})

	if cfg.PrimaryHost != "https://assets.example" {
		t.Fatalf("primary host = %q", cfg.PrimaryHost)
	}
	if cfg.TargetHeight != 2.8 {
		t.Fatalf("target height = %v, want file value kept", cfg.TargetHeight)
	}
	if cfg.Workers != 4 {
		t.Fatalf("workers = %d, want file value kept", cfg.Workers)
	}
	// Unset fields pick up defaults.
	if cfg.CatalogPath != "catalog.json" {
		t.Fatalf("catalog path = %q", cfg.CatalogPath)
	}
	if cfg.MinHeight != 0.1 || cfg.SplashTimeoutMs != 4000 || cfg.ListenAddr != ":8680" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Config{PrimaryHost: "https://from-file", Workers: 2}
	cfg.Resolve(Flags{PrimaryHost: "https://from-flag", Workers: 16, ListenAddr: ":9000"})

	if cfg.PrimaryHost != "https://from-flag" {
		t.Fatalf("primary host = %q, want flag value", cfg.PrimaryHost)
	}
	if cfg.Workers != 16 || cfg.ListenAddr != ":9000" {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
}

func TestSplashTimeout(t *testing.T) {
	cfg := Config{SplashTimeoutMs: 1500}
	if got := cfg.SplashTimeout(); got != 1500*time.Millisecond {
		t.Fatalf("timeout = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file did not error")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file did not error")
	}
}
