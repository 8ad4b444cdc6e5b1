// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kevinburke/ssh_config"
)

// PotentialHost is a host candidate parsed from ~/.ssh/config that can be
// imported as an execution host.
type PotentialHost struct {
	Alias    string
	Hostname string
	User     string
	Port     int
	KeyPath  string
}

func DefaultSSHConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// ParseSSHConfig reads ~/.ssh/config and returns every concrete host entry
// with enough information to connect. Wildcard patterns and entries without
// a user are skipped; a missing file yields an empty list.
func ParseSSHConfig() ([]PotentialHost, error) {
	path, err := DefaultSSHConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []PotentialHost{}, nil
		}
		return nil, fmt.Errorf("failed to open ssh config file %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh config file %s: %w", path, err)
	}

	var hosts []PotentialHost
	for _, block := range cfg.Hosts {
		if len(block.Patterns) == 0 {
			continue
		}
		alias := block.Patterns[0].String()
		if alias == "*" {
			continue
		}
		if candidate, ok := resolveAlias(cfg, alias); ok {
			hosts = append(hosts, candidate)
		}
	}
	return hosts, nil
}

// resolveAlias collects the effective settings for one Host alias.
func resolveAlias(cfg *ssh_config.Config, alias string) (PotentialHost, bool) {
	hostname, _ := cfg.Get(alias, "HostName")
	if hostname == "" {
		hostname = alias
	}
	user, _ := cfg.Get(alias, "User")
	if user == "" {
		return PotentialHost{}, false
	}

	port := 22
	if portStr, _ := cfg.Get(alias, "Port"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	keyPath, _ := cfg.Get(alias, "IdentityFile")
	if resolved, err := ResolvePath(keyPath); err == nil {
		keyPath = resolved
	}

	return PotentialHost{
		Alias:    alias,
		Hostname: hostname,
		User:     user,
		Port:     port,
		KeyPath:  keyPath,
	}, true
}

// ConvertToExecutionHost turns a parsed ssh config entry into an SSHHost
// under the given unique name.
func ConvertToExecutionHost(p PotentialHost, uniqueName string) (SSHHost, error) {
	if p.Hostname == "" || p.User == "" {
		return SSHHost{}, fmt.Errorf("cannot convert potential host '%s' with missing hostname or user", p.Alias)
	}
	if uniqueName == "" {
		return SSHHost{}, fmt.Errorf("a unique name is required for the execution host")
	}

	return SSHHost{
		Name:     uniqueName,
		Hostname: p.Hostname,
		User:     p.User,
		Port:     p.Port,
		KeyPath:  p.KeyPath,
	}, nil
}
