package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"
)

// Config holds all configurable hosts, paths, and display settings.
type Config struct {
	// Asset hosts
	PrimaryHost string `json:"primary_host"`
	MirrorHost  string `json:"mirror_host"`

	// Data files
	CatalogPath  string `json:"catalog_path"`
	PatternsPath string `json:"patterns_path"` // empty = embedded defaults

	// Display settings
	TargetHeight float64 `json:"target_height"`
	BaselineY    float64 `json:"baseline_y"`
	MinHeight    float64 `json:"min_height"`

	// Networking
	SplashTimeoutMs int    `json:"splash_timeout_ms"`
	Workers         int    `json:"workers"`
	ListenAddr      string `json:"listen_addr"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.PrimaryHost != "" {
		c.PrimaryHost = flags.PrimaryHost
	}
	if flags.MirrorHost != "" {
		c.MirrorHost = flags.MirrorHost
	}
	if flags.CatalogPath != "" {
		c.CatalogPath = flags.CatalogPath
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.ListenAddr != "" {
		c.ListenAddr = flags.ListenAddr
	}

	// Defaults
	if c.CatalogPath == "" {
		c.CatalogPath = "catalog.json"
	}
	if c.TargetHeight <= 0 {
		c.TargetHeight = 3.4
	}
	if c.MinHeight <= 0 {
		c.MinHeight = 0.1
	}
	if c.SplashTimeoutMs <= 0 {
		c.SplashTimeoutMs = 4000
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8680"
	}
}

// SplashTimeout returns the per-candidate wait as a duration.
func (c *Config) SplashTimeout() time.Duration {
	return time.Duration(c.SplashTimeoutMs) * time.Millisecond
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	PrimaryHost string
	MirrorHost  string
	CatalogPath string
	Workers     int
	ListenAddr  string
}
