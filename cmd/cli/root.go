// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package cli implements the bioblocks command line interface: running
// single blocks, sequencing workflows, generating CWL descriptors and
// managing configuration.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	_ "bioblocks/internal/blocks/template" // populate the block catalog
	"bioblocks/internal/config"
	"bioblocks/internal/runner"
	"bioblocks/internal/ssh"
)

var (
	sshManager      *ssh.Manager
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	stepColor       = color.New(color.FgYellow)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "bioblocks",
	Short: "Building-block wrappers for bioinformatics tools",
	Long: `A command-line toolkit for running building blocks: thin wrappers around
third-party bioinformatics tools that follow a shared configuration and
file-path convention.

Blocks run on the local machine, inside Docker/Singularity containers, or on
remote SSH hosts configured in ~/.config/bioblocks/config.yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to ensure config directory: %w", err)
		}
		sshManager = ssh.NewManager()
		runner.InitSSHManager(sshManager)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if sshManager != nil {
			sshManager.CloseAll()
		}
		return nil
	},
}

// RunCLI executes the root command.
func RunCLI() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
