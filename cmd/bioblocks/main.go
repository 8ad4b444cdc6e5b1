// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package main

import (
	"os"
	"strings"

	"bioblocks/cmd/cli"
	"bioblocks/cmd/tui"
)

func main() {
	// A single argument naming an existing workflow file starts the terminal
	// monitor directly. Everything else goes through the CLI.
	if len(os.Args) == 2 && isWorkflowFile(os.Args[1]) {
		tui.RunTUI(os.Args[1])
		return
	}
	cli.RunCLI()
}

func isWorkflowFile(path string) bool {
	if !strings.HasSuffix(path, ".yml") && !strings.HasSuffix(path, ".yaml") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
