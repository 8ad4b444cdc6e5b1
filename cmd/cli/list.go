// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bioblocks/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available building blocks",
	Run: func(cmd *cobra.Command, args []string) {
		statusColor.Println("Available building blocks:")
		for _, entry := range registry.All() {
			fmt.Printf("- %s  %s\n", identifierColor.Sprint(entry.Spec.Name), entry.Spec.Summary)
		}
	},
}

var describeCmd = &cobra.Command{
	Use:               "describe <block>",
	Short:             "Show a block's inputs, outputs and properties",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: blockCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		entry, err := registry.Get(args[0])
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		spec := entry.Spec

		statusColor.Println(spec.Name)
		fmt.Println(spec.Description)

		fmt.Println()
		stepColor.Println("Inputs:")
		printFiles(spec.Inputs)
		stepColor.Println("Outputs:")
		printFiles(spec.Outputs)

		fmt.Println()
		stepColor.Println("Properties:")
		for _, p := range spec.Properties {
			def := p.Default
			if def == "" {
				def = `""`
			}
			wf := ""
			if p.WF {
				wf = dimColor.Sprint(" [WF property]")
			}
			fmt.Printf("  %s (%s) - (%s)%s %s\n", identifierColor.Sprint(p.Name), p.Type, def, wf, p.Description)
		}
	},
}

func printFiles(files []registry.FileSpec) {
	for _, f := range files {
		req := dimColor.Sprint("optional")
		if f.Required {
			req = "required"
		}
		var formats []string
		for _, fm := range f.Formats {
			if fm.EDAM != "" {
				formats = append(formats, fmt.Sprintf("%s (edam:%s)", fm.Extension, fm.EDAM))
			} else {
				formats = append(formats, fm.Extension)
			}
		}
		line := fmt.Sprintf("  --%s (%s) %s", f.Name, req, f.Description)
		if len(formats) > 0 {
			line += dimColor.Sprintf(" Accepted formats: %s.", strings.Join(formats, ", "))
		}
		fmt.Println(line)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
}
