// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"bioblocks/internal/config"
	"bioblocks/internal/registry"
)

// blockCompletionFunc provides completion for block names from the catalog.
func blockCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var suggestions []string
	for _, name := range registry.Names() {
		if strings.HasPrefix(name, toComplete) {
			suggestions = append(suggestions, name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// hostCompletionFunc provides completion for the --host flag from the
// configured SSH hosts. Config load errors are ignored during completion.
func hostCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var suggestions []string
	cfg, err := config.LoadConfig()
	if err == nil {
		for _, host := range cfg.SSHHosts {
			if strings.HasPrefix(host.Name, toComplete) {
				suggestions = append(suggestions, host.Name)
			}
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
