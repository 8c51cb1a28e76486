// Package config loads hanoi settings.
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults (32 rings, pegs 0 → 2)
//  2. A TOML file, by default $XDG_CONFIG_HOME/hanoi/config.toml
//  3. HANOI_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	rings = 20
//	pegs = 3
//	source = 0
//	destination = 2
//
//	[cache]
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_rings = 24
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	errs "github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

const appName = "hanoi"

// DefaultServeMaxRings caps ring counts accepted by the HTTP API.
const DefaultServeMaxRings = 24

// Config holds every setting the CLI and server read.
type Config struct {
	Rings       int `toml:"rings" env:"HANOI_RINGS"`
	Pegs        int `toml:"pegs" env:"HANOI_PEGS"`
	Source      int `toml:"source" env:"HANOI_SOURCE"`
	Destination int `toml:"destination" env:"HANOI_DESTINATION"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache.
// A non-empty RedisAddr selects redis over the file cache.
type CacheConfig struct {
	Disabled      bool   `toml:"disabled" env:"HANOI_CACHE_DISABLED"`
	Dir           string `toml:"dir" env:"HANOI_CACHE_DIR"`
	RedisAddr     string `toml:"redis_addr" env:"HANOI_REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"HANOI_REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"HANOI_REDIS_DB"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr     string `toml:"addr" env:"HANOI_SERVER_ADDR"`
	MaxRings int    `toml:"max_rings" env:"HANOI_SERVER_MAX_RINGS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Rings:       pipeline.DefaultRings,
		Pegs:        pipeline.DefaultPegs,
		Source:      pipeline.DefaultSource,
		Destination: pipeline.DefaultDestination,
		Server: ServerConfig{
			Addr:     ":8080",
			MaxRings: DefaultServeMaxRings,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path and
// the environment. An empty path means DefaultPath, which may be absent;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		err := decodeFile(path, &cfg)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errs.New(errs.ErrCodeInvalidInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks ring and peg limits. Peg roles are left to the solver so
// they surface as configuration errors from the puzzle itself.
func (c Config) Validate() error {
	if err := errs.ValidateRingCount(c.Rings); err != nil {
		return err
	}
	if err := errs.ValidatePegCount(c.Pegs); err != nil {
		return err
	}
	if c.Server.MaxRings < 0 || c.Server.MaxRings > errs.MaxRings {
		return errs.New(errs.ErrCodeInvalidInput, "server.max_rings must be within [0, %d]: %d", errs.MaxRings, c.Server.MaxRings)
	}
	return nil
}

// Options converts the solve settings into pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Rings:       c.Rings,
		Pegs:        c.Pegs,
		Source:      c.Source,
		Destination: c.Destination,
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/hanoi/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the file cache directory: Cache.Dir when set, otherwise
// the XDG cache location (~/.cache/hanoi/).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
