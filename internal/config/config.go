// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

// Package config loads runtime configuration from defaults, an optional
// YAML file, and command-line flags, in ascending precedence.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full runtime configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Plugins PluginsConfig `koanf:"plugins"`
}

// ServerConfig addresses the web server hosting plugin routes.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LogConfig controls log output.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// PluginsConfig lists plugin locators to load at startup and tunes the
// output collector.
type PluginsConfig struct {
	Locators        []string      `koanf:"locators"`
	CollectInterval time.Duration `koanf:"collect-interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
		Plugins: PluginsConfig{
			CollectInterval: 30 * time.Second,
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"log-format":       "log.format",
	"log-level":        "log.level",
	"collect-interval": "plugins.collect-interval",
}

// Load builds the configuration. path may be "" to skip the file layer;
// flags may be nil to skip the flag layer.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			if mapped, ok := flagKeys[key]; ok {
				return mapped, value
			}
			return key, value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Wrap(err)
	}
	return cfg, nil
}
