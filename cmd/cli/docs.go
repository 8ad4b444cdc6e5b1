// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"bioblocks/internal/registry"
)

var docsCmd = &cobra.Command{
	Use:               "docs [block]",
	Short:             "Render a block's documentation in the terminal",
	Long:              `Renders the Markdown documentation of one block, or of the whole catalog when no block is named.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: blockCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		var sections []string
		if len(args) == 1 {
			entry, err := registry.Get(args[0])
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			sections = append(sections, entry.Spec.Doc)
		} else {
			for _, entry := range registry.All() {
				sections = append(sections, entry.Spec.Doc)
			}
		}

		markdown := strings.Join(sections, "\n---\n")

		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err != nil {
			// Fall back to the raw markdown when the terminal profile fails.
			fmt.Println(markdown)
			return
		}
		out, err := renderer.Render(markdown)
		if err != nil {
			fmt.Println(markdown)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
