// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"bioblocks/cmd/tui"
	"bioblocks/internal/config"
	"bioblocks/internal/logger"
	"bioblocks/internal/workflow"
)

var workflowWatch bool

var workflowCmd = &cobra.Command{
	Use:     "workflow <file>",
	Aliases: []string{"wf"},
	Short:   "Run a workflow of building blocks (alias: wf)",
	Long: `Runs the steps of a YAML workflow file in order, stopping at the first
failure. With --watch the run opens in the terminal monitor instead of
streaming to stdout.`,
	Example: "  bioblocks workflow analysis.yml\n  bioblocks workflow analysis.yml --watch",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wf, err := workflow.Read(args[0])
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		appCfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if workflowWatch {
			tui.RunWorkflow(wf, appCfg)
			return
		}

		if err := runWorkflowCLI(wf, appCfg); err != nil {
			logger.Errorf("Workflow '%s' failed: %v", wf.Name, err)
			errorColor.Fprintf(os.Stderr, "\nWorkflow failed: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("\nWorkflow '%s' completed successfully.\n", wf.Name)
	},
}

// runWorkflowCLI streams a workflow run to stdout, spinning between step
// start and its first output.
func runWorkflowCLI(wf *workflow.Workflow, appCfg config.Config) error {
	events := make(chan workflow.Event, 64)
	r := &workflow.Runner{Workflow: wf, AppConfig: appCfg, Events: events}

	statusColor.Printf("Running workflow '%s' (%d steps)...\n", wf.Name, len(wf.Steps))

	errResult := make(chan error, 1)
	go func() {
		errResult <- r.Run()
	}()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Color("cyan")

	spinning := false
	for ev := range events {
		switch ev.Type {
		case workflow.EventStepStarted:
			step := wf.Steps[ev.Index]
			stepColor.Printf("\n--- Running Step: %s [%s] ---\n", step.Name, identifierColor.Sprint(step.Block))
			s.Suffix = fmt.Sprintf(" %s...", step.Name)
			s.Start()
			spinning = true

		case workflow.EventStepOutput:
			if spinning {
				s.Stop()
				spinning = false
			}
			fmt.Print(ev.Line)

		case workflow.EventStepSkipped:
			if spinning {
				s.Stop()
				spinning = false
			}
			dimColor.Printf("--- Step '%s' skipped (outputs already present) ---\n", wf.Steps[ev.Index].Name)

		case workflow.EventStepFinished:
			if spinning {
				s.Stop()
				spinning = false
			}
			step := wf.Steps[ev.Index]
			if ev.Err != nil {
				errorColor.Printf("--- Step '%s' failed (exit %d) ---\n", step.Name, ev.ExitCode)
			} else {
				successColor.Printf("--- Step '%s' completed successfully ---\n", step.Name)
			}

		case workflow.EventDone:
			if spinning {
				s.Stop()
				spinning = false
			}
		}
	}

	return <-errResult
}

func init() {
	workflowCmd.Flags().BoolVar(&workflowWatch, "watch", false, "Monitor the run in the terminal UI")
	rootCmd.AddCommand(workflowCmd)
}
