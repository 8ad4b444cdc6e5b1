// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package tui starts the terminal workflow monitor.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	_ "bioblocks/internal/blocks/template" // populate the block catalog
	"bioblocks/internal/config"
	"bioblocks/internal/logger"
	"bioblocks/internal/runner"
	"bioblocks/internal/ssh"
	"bioblocks/internal/ui"
	"bioblocks/internal/workflow"
)

// RunTUI reads the workflow file and runs it under the terminal monitor.
func RunTUI(workflowPath string) {
	logger.InitLogger(true)

	wf, err := workflow.Read(workflowPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manager := ssh.NewManager()
	runner.InitSSHManager(manager)
	defer manager.CloseAll()

	RunWorkflow(wf, appCfg)
}

// RunWorkflow runs an already-parsed workflow under the terminal monitor.
// Stderr logging is suppressed so log lines do not corrupt the display.
func RunWorkflow(wf *workflow.Workflow, appCfg config.Config) {
	logger.InitLogger(true)

	m := ui.InitialModel(wf, appCfg)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
