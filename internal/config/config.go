// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

// Package config loads IntelBoard configuration from a YAML file, command
// line flags, and the environment. Precedence, lowest to highest: built-in
// defaults, config file, flags, DATABASE_URL environment variable.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/intelboard/intelboard/internal/xdg"
)

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Mirror   MirrorConfig   `koanf:"mirror"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// MirrorConfig holds legacy users-file settings.
type MirrorConfig struct {
	// Path of the flat-file mirror. Empty disables mirror maintenance.
	Path string `koanf:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"` // "json" or "text"
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"database-url": "database.url",
	"mirror-path":  "mirror.path",
	"log-format":   "log.format",
	"log-level":    "log.level",
}

// RegisterFlags adds the configuration flags to a flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("database-url", "", "PostgreSQL connection URL")
	flags.String("mirror-path", "", "path of the legacy users file")
	flags.String("log-format", "", "log format: json or text")
	flags.String("log-level", "", "log level: debug, info, warn, or error")
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Mirror: MirrorConfig{Path: xdg.DefaultMirrorPath()},
		Log:    LogConfig{Format: "json", Level: "info"},
	}
}

// Load builds the configuration. path selects an explicit config file; when
// empty, the XDG config file is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path == "" {
		candidate := filepath.Join(xdg.ConfigDir(), "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, oops.Code("CONFIG_INVALID").
				With("operation", "load config file").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			// Unset flags have empty defaults; loading them would stomp
			// file and built-in values.
			if value == "" {
				return "", nil
			}
			if mapped, ok := flagKeys[key]; ok {
				return mapped, value
			}
			return "", nil
		})
		if err := k.Load(provider, nil); err != nil {
			return cfg, oops.Code("CONFIG_INVALID").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	// DATABASE_URL wins over everything, matching deploy tooling conventions.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set database.url, --database-url, or DATABASE_URL)")
	}
	return nil
}
