// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"bioblocks/internal/cwl"
	"bioblocks/internal/registry"
)

var cwlOutputDir string

var cwlCmd = &cobra.Command{
	Use:               "cwl [block]",
	Short:             "Generate CWL tool descriptors for blocks",
	Long:              `Writes a CWL CommandLineTool descriptor for the named block, or for every catalog block when none is named.`,
	Example:           "  bioblocks cwl template_container -o cwl/\n  bioblocks cwl",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: blockCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		var specs []registry.Spec
		if len(args) == 1 {
			entry, err := registry.Get(args[0])
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			specs = append(specs, entry.Spec)
		} else {
			for _, entry := range registry.All() {
				specs = append(specs, entry.Spec)
			}
		}

		for _, spec := range specs {
			path, err := cwl.WriteTool(spec, cwlOutputDir)
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			successColor.Printf("Wrote %s\n", path)
		}
	},
}

func init() {
	cwlCmd.Flags().StringVarP(&cwlOutputDir, "output-dir", "o", "", "Directory for the generated descriptors")
	rootCmd.AddCommand(cwlCmd)
}
