// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package ssh maintains pooled SSH connections to the execution hosts that
// building blocks run on. Clients are dialed lazily, revalidated with a
// keepalive before reuse, and shared across block launches.
package ssh

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bioblocks/internal/config"
	"bioblocks/internal/logger"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

const dialTimeout = 10 * time.Second

// Manager pools SSH clients per execution host so repeated block launches
// on the same host reuse one connection. Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	clients map[string]*ssh.Client
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*ssh.Client)}
}

// GetClient returns a connected client for the execution host, dialing a new
// connection when none is pooled or the pooled one is stale.
func (m *Manager) GetClient(host config.SSHHost) (*ssh.Client, error) {
	if client, ok := m.takeAlive(host.Name); ok {
		return client, nil
	}

	cfg, err := m.clientConfig(host)
	if err != nil {
		return nil, err
	}

	port := host.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", host.Hostname, port)

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to dial execution host %s (%s): %w", host.Name, addr, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another launch may have dialed the same host meanwhile.
	if existing, ok := m.clients[host.Name]; ok {
		go client.Close()
		return existing, nil
	}
	m.clients[host.Name] = client
	return client, nil
}

// takeAlive returns the pooled client for the host if it still answers a
// keepalive; stale clients are dropped from the pool.
func (m *Manager) takeAlive(name string) (*ssh.Client, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	client, ok := m.clients[name]
	if !ok {
		return nil, false
	}
	if _, _, err := client.SendRequest("keepalive@openssh.com", true, nil); err == nil {
		return client, true
	}
	logger.Debug("Dropping stale SSH connection", "host", name)
	client.Close()
	delete(m.clients, name)
	return nil, false
}

func (m *Manager) clientConfig(host config.SSHHost) (*ssh.ClientConfig, error) {
	auth, err := authMethods(host)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare auth methods for %s: %w", host.Name, err)
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("no authentication method available for %s (key, agent, or password required)", host.Name)
	}

	cfg := &ssh.ClientConfig{
		User:    host.User,
		Auth:    auth,
		Timeout: dialTimeout,
	}
	callback, err := hostKeyCallback()
	if err != nil {
		logger.Warnf("Could not set up host key verification for %s: %v. Host key will not be verified.", host.Name, err)
		callback = ssh.InsecureIgnoreHostKey()
	}
	cfg.HostKeyCallback = callback
	return cfg, nil
}

// authMethods collects the usable authentication methods for a host, in
// order: configured private key, running agent, configured password.
func authMethods(host config.SSHHost) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if host.KeyPath != "" {
		keyPath, err := config.ResolvePath(host.KeyPath)
		if err != nil {
			keyPath = host.KeyPath
		}
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key %s: %w", keyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		switch {
		case err == nil:
			methods = append(methods, ssh.PublicKeys(signer))
		default:
			if _, missing := err.(*ssh.PassphraseMissingError); !missing {
				return nil, fmt.Errorf("failed to parse private key %s: %w", keyPath, err)
			}
			// Encrypted keys need the agent; skip and let it answer.
			logger.Warnf("Private key %s is passphrase-protected, relying on the agent", keyPath)
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if host.Password != "" {
		methods = append(methods, ssh.Password(host.Password))
	}

	return methods, nil
}

// hostKeyCallback verifies hosts against ~/.ssh/known_hosts. A missing file
// degrades to no verification with a warning.
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate known_hosts: %w", err)
	}
	path := filepath.Join(home, ".ssh", "known_hosts")

	callback, err := knownhosts.New(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("known_hosts file (%s) not found, connecting without verification", path)
			return ssh.InsecureIgnoreHostKey(), nil
		}
		return nil, fmt.Errorf("failed to parse known_hosts file %s: %w", path, err)
	}
	return callback, nil
}

// Close drops the pooled connection for one host.
func (m *Manager) Close(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if client, ok := m.clients[name]; ok {
		if err := client.Close(); err != nil {
			logger.Errorf("Error closing SSH client for %s: %v", name, err)
		}
		delete(m.clients, name)
	}
}

// CloseAll drops every pooled connection. Called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			logger.Errorf("Error closing SSH client for %s: %v", name, err)
		}
		delete(m.clients, name)
	}
}
