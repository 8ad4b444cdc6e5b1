// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSSHConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := `
Host *
    ServerAliveInterval 60

Host hpc
    HostName hpc.example.org
    User alice
    Port 2222
    IdentityFile ~/.ssh/id_hpc

Host noname
`
	if err := os.WriteFile(filepath.Join(sshDir, "config"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	hosts, err := ParseSSHConfig()
	if err != nil {
		t.Fatalf("ParseSSHConfig: %v", err)
	}
	// The wildcard block and the entry without a user are skipped.
	if len(hosts) != 1 {
		t.Fatalf("hosts = %+v, want 1 entry", hosts)
	}
	h := hosts[0]
	if h.Alias != "hpc" || h.Hostname != "hpc.example.org" || h.User != "alice" || h.Port != 2222 {
		t.Errorf("parsed host = %+v", h)
	}
	if h.KeyPath != filepath.Join(home, ".ssh", "id_hpc") {
		t.Errorf("key path = %q", h.KeyPath)
	}
}

func TestParseSSHConfigMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	hosts, err := ParseSSHConfig()
	if err != nil {
		t.Fatalf("ParseSSHConfig: %v", err)
	}
	if len(hosts) != 0 {
		t.Fatalf("hosts = %+v, want none", hosts)
	}
}

func TestConvertToExecutionHost(t *testing.T) {
	p := PotentialHost{Alias: "hpc", Hostname: "hpc.example.org", User: "alice", Port: 22}

	host, err := ConvertToExecutionHost(p, "cluster")
	if err != nil {
		t.Fatal(err)
	}
	if host.Name != "cluster" || host.Hostname != "hpc.example.org" {
		t.Errorf("host = %+v", host)
	}

	if _, err := ConvertToExecutionHost(p, ""); err == nil {
		t.Error("empty name should be an error")
	}
	if _, err := ConvertToExecutionHost(PotentialHost{Alias: "x"}, "x"); err == nil {
		t.Error("missing hostname/user should be an error")
	}
}
