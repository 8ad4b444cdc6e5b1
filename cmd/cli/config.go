// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bioblocks/internal/config"
	"bioblocks/internal/logger"
)

// configCmd is the parent command for all configuration-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bioblocks configuration",
	Long: `Provides subcommands to manage the bioblocks configuration: the default
working directory for sandboxes and step logs, and the SSH hosts blocks can
execute on.`,
}

var configSetWorkdirCmd = &cobra.Command{
	Use:   "set-workdir <path>",
	Short: "Set the default working directory for sandboxes and step logs",
	Long: `Sets the directory where blocks create their staging sandboxes and step
logs when a run configuration does not set its own working_dir_path.
Use an absolute path or a path starting with '~/'.
To revert to the process working directory, set the path to an empty string.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		workdir := args[0]

		// Raw load keeps disabled hosts so saving does not drop them.
		cfg, err := config.LoadRawConfig()
		if err != nil {
			logger.Errorf("Error loading configuration: %v", err)
			os.Exit(1)
		}

		if workdir != "" && !strings.HasPrefix(workdir, "/") && !strings.HasPrefix(workdir, "~/") {
			logger.Error("Error: Path must be absolute or start with '~/'")
			os.Exit(1)
		}

		cfg.WorkingDirPath = workdir

		err = config.SaveConfig(cfg)
		if err != nil {
			logger.Errorf("Error saving configuration: %v", err)
			os.Exit(1)
		}

		if workdir == "" {
			successColor.Println("Working directory reset to the process working directory.")
		} else {
			successColor.Printf("Working directory set to: %s\n", workdir)
		}
	},
}

var configGetWorkdirCmd = &cobra.Command{
	Use:   "get-workdir",
	Short: "Show the configured default working directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Errorf("Error loading configuration: %v", err)
			os.Exit(1)
		}

		if cfg.WorkingDirPath != "" {
			fmt.Println(cfg.WorkingDirPath)
		} else {
			fmt.Println(dimColor.Sprint("[Default: process working directory]"))
		}
	},
}

func init() {
	configCmd.AddCommand(configSetWorkdirCmd)
	configCmd.AddCommand(configGetWorkdirCmd)
	configCmd.AddCommand(hostsCmd)
	rootCmd.AddCommand(configCmd)
}
