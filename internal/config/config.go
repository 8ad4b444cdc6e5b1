// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package config handles configuration for bioblocks: the application
// configuration file (remote execution hosts, default working directory) and
// the per-run configuration files that drive individual building blocks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SSHHost is a remote host building blocks can execute on instead of the
// local machine.
type SSHHost struct {
	// Name is the identifier used by --host flags and workflow steps
	Name string `yaml:"name"`

	Hostname string `yaml:"hostname"`
	User     string `yaml:"user"`

	// Port defaults to 22 when zero
	Port int `yaml:"port,omitempty"`

	// KeyPath points at the private key file; may start with ~/
	KeyPath string `yaml:"key_path,omitempty"`

	// Password is plaintext and discouraged; prefer keys or an agent
	Password string `yaml:"password,omitempty"`

	// Disabled hosts are kept in the file but skipped on load
	Disabled bool `yaml:"disabled,omitempty"`
}

// Config is the application configuration.
type Config struct {
	// WorkingDirPath is where sandboxes and step logs land when a run
	// configuration does not set its own working directory
	WorkingDirPath string `yaml:"working_dir_path,omitempty"`

	SSHHosts []SSHHost `yaml:"ssh_hosts"`
}

// DefaultConfigPath is <user config dir>/bioblocks/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "bioblocks", "config.yaml"), nil
}

// LoadConfig reads the application configuration. A missing file yields an
// empty configuration; disabled hosts are filtered out.
func LoadConfig() (Config, error) {
	cfg, err := LoadRawConfig()
	if err != nil {
		return Config{}, err
	}
	cfg.SSHHosts = slices.DeleteFunc(cfg.SSHHosts, func(h SSHHost) bool {
		return h.Disabled
	})
	return cfg, nil
}

// LoadRawConfig reads the configuration as stored, disabled hosts included.
// Commands that modify and save the configuration must load it this way so
// that saving does not drop disabled entries.
func LoadRawConfig() (Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", filepath.Dir(path), err)
	}
	return nil
}

// SaveConfig writes the configuration back to its default location.
func SaveConfig(cfg Config) error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	// May contain passwords, keep group-readable at most
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ApplyWorkingDir fills the properties' path from the configured default
// working directory when neither the run configuration nor the caller set
// one. Sandboxes and step logs then land there instead of the process
// working directory.
func (c Config) ApplyWorkingDir(p *Properties) error {
	if p.Path != "" || c.WorkingDirPath == "" {
		return nil
	}
	wd, err := ResolvePath(c.WorkingDirPath)
	if err != nil {
		return err
	}
	p.Path = wd
	return nil
}

// FindHost returns the configured host with the given name.
func (c Config) FindHost(name string) (*SSHHost, error) {
	for i := range c.SSHHosts {
		if c.SSHHosts[i].Name == name {
			return &c.SSHHosts[i], nil
		}
	}
	return nil, fmt.Errorf("no configured host named '%s'", name)
}

// ResolvePath expands a leading ~/ to the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}
	return filepath.Join(home, path[2:]), nil
}
