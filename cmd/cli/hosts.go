// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"bioblocks/internal/config"
	"bioblocks/internal/logger"
)

var (
	hostAddUser     string
	hostAddPort     int
	hostAddKeyPath  string
	hostAddPassword string
)

// hostsCmd groups the SSH execution host subcommands under `config hosts`.
var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Manage SSH hosts for remote block execution",
	Long: `Provides subcommands to list, add, remove and import the SSH hosts that
blocks and workflow steps can execute on.`,
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured SSH hosts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Errorf("Error loading configuration: %v", err)
			os.Exit(1)
		}

		if len(cfg.SSHHosts) == 0 {
			fmt.Println(dimColor.Sprint("No SSH hosts configured."))
			return
		}

		for _, host := range cfg.SSHHosts {
			identifierColor.Printf("%s\n", host.Name)
			fmt.Printf("  %s@%s", host.User, host.Hostname)
			if host.Port != 0 && host.Port != 22 {
				fmt.Printf(":%d", host.Port)
			}
			fmt.Println()
			if host.KeyPath != "" {
				fmt.Printf("  key: %s\n", host.KeyPath)
			}
		}
	},
}

var hostsAddCmd = &cobra.Command{
	Use:   "add <name> <hostname>",
	Short: "Add an SSH host",
	Long: `Adds an SSH host to the configuration. The name is the identifier used by
the --host flag and by workflow step definitions.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, hostname := args[0], args[1]

		// Raw load keeps disabled hosts so saving does not drop them.
		cfg, err := config.LoadRawConfig()
		if err != nil {
			logger.Errorf("Error loading configuration: %v", err)
			os.Exit(1)
		}

		if _, err := cfg.FindHost(name); err == nil {
			logger.Errorf("Error: a host named %q already exists", name)
			os.Exit(1)
		}

		host := config.SSHHost{
			Name:     name,
			Hostname: hostname,
			User:     hostAddUser,
			Port:     hostAddPort,
			KeyPath:  hostAddKeyPath,
			Password: hostAddPassword,
		}
		cfg.SSHHosts = append(cfg.SSHHosts, host)

		if err := config.SaveConfig(cfg); err != nil {
			logger.Errorf("Error saving configuration: %v", err)
			os.Exit(1)
		}
		successColor.Printf("Added host %s (%s@%s)\n", name, host.User, hostname)
	},
}

var hostsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an SSH host",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		cfg, err := config.LoadRawConfig()
		if err != nil {
			logger.Errorf("Error loading configuration: %v", err)
			os.Exit(1)
		}

		before := len(cfg.SSHHosts)
		cfg.SSHHosts = slices.DeleteFunc(cfg.SSHHosts, func(h config.SSHHost) bool {
			return h.Name == name
		})
		if len(cfg.SSHHosts) == before {
			logger.Errorf("Error: no host named %q", name)
			os.Exit(1)
		}

		if err := config.SaveConfig(cfg); err != nil {
			logger.Errorf("Error saving configuration: %v", err)
			os.Exit(1)
		}
		successColor.Printf("Removed host %s\n", name)
	},
}

var hostsImportCmd = &cobra.Command{
	Use:   "import-ssh",
	Short: "Import hosts from ~/.ssh/config",
	Long: `Reads ~/.ssh/config and adds every concrete host entry that is not already
present in the bioblocks configuration. Wildcard patterns are skipped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadRawConfig()
		if err != nil {
			logger.Errorf("Error loading configuration: %v", err)
			os.Exit(1)
		}

		potential, err := config.ParseSSHConfig()
		if err != nil {
			logger.Errorf("Error reading SSH config: %v", err)
			os.Exit(1)
		}

		imported := 0
		for _, p := range potential {
			if _, err := cfg.FindHost(p.Alias); err == nil {
				continue
			}
			host, err := config.ConvertToExecutionHost(p, p.Alias)
			if err != nil {
				logger.Warnf("Skipping %s: %v", p.Alias, err)
				continue
			}
			cfg.SSHHosts = append(cfg.SSHHosts, host)
			statusColor.Printf("Imported %s (%s@%s)\n", host.Name, host.User, host.Hostname)
			imported++
		}

		if imported == 0 {
			fmt.Println(dimColor.Sprint("Nothing to import."))
			return
		}

		if err := config.SaveConfig(cfg); err != nil {
			logger.Errorf("Error saving configuration: %v", err)
			os.Exit(1)
		}
		successColor.Printf("Imported %d host(s).\n", imported)
	},
}

func init() {
	hostsAddCmd.Flags().StringVarP(&hostAddUser, "user", "u", "", "SSH username")
	hostsAddCmd.Flags().IntVarP(&hostAddPort, "port", "p", 22, "SSH port")
	hostsAddCmd.Flags().StringVarP(&hostAddKeyPath, "key", "k", "", "Path to the private key file")
	hostsAddCmd.Flags().StringVar(&hostAddPassword, "password", "", "SSH password (prefer keys or an agent)")

	hostsCmd.AddCommand(hostsListCmd)
	hostsCmd.AddCommand(hostsAddCmd)
	hostsCmd.AddCommand(hostsRemoveCmd)
	hostsCmd.AddCommand(hostsImportCmd)
}
