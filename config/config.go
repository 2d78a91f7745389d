// Package config loads the settings of the psptex command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Preview holds settings for rendered previews.
type Preview struct {
	Scale  int    `toml:"scale"`
	Format string `toml:"format"`
}

// Config holds all configurable paths and settings.
type Config struct {
	// Directory textures are loaded from
	Root string `toml:"root"`
	// Asset pack to load from instead of Root
	Pack    string  `toml:"pack"`
	Verbose bool    `toml:"verbose"`
	Preview Preview `toml:"preview"`
}

// Load reads a TOML config file. Fields not set in the file keep their zero
// values. Relative paths are taken relative to the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	if cfg.Pack != "" && !filepath.IsAbs(cfg.Pack) {
		cfg.Pack = filepath.Join(dir, cfg.Pack)
	}

	return cfg, nil
}

// Flags holds command line values that override the config file.
type Flags struct {
	Root    string
	Pack    string
	Verbose bool
	Scale   int
	Format  string
}

// Resolve applies flags over c and fills in defaults for anything still
// unset.
func (c *Config) Resolve(flags Flags) {
	if flags.Root != "" {
		c.Root = flags.Root
	}
	if flags.Pack != "" {
		c.Pack = flags.Pack
	}
	if flags.Verbose {
		c.Verbose = true
	}
	if flags.Scale > 0 {
		c.Preview.Scale = flags.Scale
	}
	if flags.Format != "" {
		c.Preview.Format = flags.Format
	}

	if c.Root == "" {
		c.Root = "."
	}
	if c.Preview.Scale <= 0 {
		c.Preview.Scale = 1
	}
}
