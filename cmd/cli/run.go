// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"bioblocks/internal/block"
	"bioblocks/internal/config"
	"bioblocks/internal/logger"
	"bioblocks/internal/registry"
	"bioblocks/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single building block",
	Long: `Runs one building block. Each block is a subcommand carrying the
conventional flags: --config/--system/--step select the run configuration,
and the block's input/output flags declare its file paths.`,
}

func init() {
	for _, entry := range registry.All() {
		runCmd.AddCommand(newBlockCommand(entry))
	}
	rootCmd.AddCommand(runCmd)
}

// newBlockCommand builds the cobra command for one catalog block, deriving
// the path flags from the block's declared inputs and outputs.
func newBlockCommand(entry registry.Entry) *cobra.Command {
	spec := entry.Spec

	var (
		configPath string
		system     string
		step       string
		host       string
	)
	pathFlags := map[string]*string{}

	cmd := &cobra.Command{
		Use:   spec.Name,
		Short: spec.Summary,
		Long:  spec.Description,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			code, err := launchBlock(entry, configPath, system, step, host, pathFlags)
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
				if code <= 0 {
					code = 1
				}
				os.Exit(code)
			}
			successColor.Printf("Block '%s' completed successfully.\n", spec.Name)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Run configuration file (YAML or JSON)")
	cmd.Flags().StringVar(&system, "system", "", "System overlay to apply from the run configuration")
	cmd.Flags().StringVar(&step, "step", "", "Step key selecting a section of the run configuration")
	cmd.Flags().StringVar(&host, "host", "", "Configured SSH host to execute on instead of the local machine")
	_ = cmd.RegisterFlagCompletionFunc("host", hostCompletionFunc)

	for _, in := range spec.Inputs {
		target := new(string)
		pathFlags[in.Name] = target
		cmd.Flags().StringVar(target, in.Name, "", in.Description)
		if in.Required {
			// Paths may also come from the run configuration, so requiredness
			// is validated at launch, not by cobra.
			_ = cmd.Flags().SetAnnotation(in.Name, "bioblocks_required", []string{"true"})
		}
	}
	for _, out := range spec.Outputs {
		target := new(string)
		pathFlags[out.Name] = target
		cmd.Flags().StringVar(target, out.Name, "", out.Description)
	}

	return cmd
}

// launchBlock resolves configuration and paths, builds the block and runs it.
func launchBlock(entry registry.Entry, configPath, system, step, host string, pathFlags map[string]*string) (int, error) {
	runCfg, err := config.ReadRunConfig(configPath)
	if err != nil {
		return -1, err
	}

	props, err := runCfg.Properties(step, system)
	if err != nil {
		return -1, err
	}

	appCfg, err := config.LoadConfig()
	if err != nil {
		return -1, err
	}
	if err := appCfg.ApplyWorkingDir(&props); err != nil {
		return -1, err
	}

	// Flag paths take precedence over the run configuration's step paths.
	paths := map[string]string{}
	for k, v := range runCfg.Paths(step) {
		paths[k] = v
	}
	for name, value := range pathFlags {
		if *value != "" {
			paths[name] = *value
		}
	}

	io := block.IOMap{In: map[string]string{}, Out: map[string]string{}}
	for _, in := range entry.Spec.Inputs {
		io.In[in.Name] = paths[in.Name]
	}
	for _, out := range entry.Spec.Outputs {
		io.Out[out.Name] = paths[out.Name]
	}

	target := runner.LocalTarget()
	if host != "" {
		hostCfg, err := appCfg.FindHost(host)
		if err != nil {
			return -1, err
		}
		target = runner.RemoteTarget(hostCfg)
		statusColor.Printf("Executing block '%s' on host %s\n",
			entry.Spec.Name, identifierColor.Sprint(host))
	}

	logger.Info("CLI launch", "block", entry.Spec.Name, "target", target.ServerName, "step", step)

	blk := entry.Factory(io, props, target)
	return blk.Launch()
}
