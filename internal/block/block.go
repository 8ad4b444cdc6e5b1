// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package block implements the shared lifecycle of a building block: path
// validation, restart skip, sandbox staging for container runs, command
// execution and temporary file cleanup. Concrete blocks embed Base and only
// compose their tool's command line.
package block

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bioblocks/internal/config"
	"bioblocks/internal/container"
	"bioblocks/internal/fileutil"
	"bioblocks/internal/logger"
	"bioblocks/internal/runner"
	"bioblocks/internal/util"
)

// IOMap holds the input and output file paths of a block, keyed by their
// conventional names (input_file_path1, output_file_path, ...).
type IOMap struct {
	In  map[string]string
	Out map[string]string
}

// Block is a single-purpose wrapper over one third-party tool. Launch runs
// the wrapped tool and returns its exit code.
type Block interface {
	Name() string
	Launch() (int, error)
}

// Base carries the state shared by all blocks. Concrete blocks embed it and
// drive the lifecycle from their Launch method:
//
//	Setup -> CheckRestart -> StageFiles -> Execute -> CopyToHost -> Cleanup
type Base struct {
	StepName string
	IO       IOMap
	Props    config.Properties
	Target   runner.Target

	// Output optionally mirrors the wrapped tool's combined output, e.g. to
	// a workflow event stream. May be nil.
	Output io.Writer

	// Log is the per-step out/err log pair, created by Setup.
	Log *logger.StepLog

	// Sandbox is the unique staging directory for container runs.
	Sandbox string

	// Staged maps the declared paths to the paths the composed command must
	// reference (container volume paths when containerized).
	Staged IOMap

	// stagedOut maps output keys to their host-side sandbox location so
	// CopyToHost can bring results back.
	stagedOut map[string]string

	// TmpFiles are extra paths removed by Cleanup when remove_tmp is set.
	TmpFiles []string

	// skipped records a restart skip so callers can tell it apart from a
	// normal run.
	skipped bool

	opts container.Options
}

// NewBase builds the shared state for a block run.
func NewBase(stepName string, io IOMap, props config.Properties, target runner.Target) Base {
	if props.Step == "" {
		props.Step = stepName
	}
	return Base{
		StepName: stepName,
		IO:       io,
		Props:    props,
		Target:   target,
		opts:     container.FromProperties(props),
	}
}

// SetOutput mirrors the wrapped tool's combined output to w.
func (b *Base) SetOutput(w io.Writer) {
	b.Output = w
}

// Setup validates the declared paths and opens the step logs. required lists
// the path keys that must be present; input keys listed there must also
// exist on disk for local runs.
func (b *Base) Setup(required ...string) error {
	for _, key := range required {
		in, isIn := b.IO.In[key]
		out, isOut := b.IO.Out[key]
		switch {
		case isIn:
			if in == "" {
				return fmt.Errorf("required input path '%s' is empty", key)
			}
			if !b.Target.IsRemote {
				if _, err := os.Stat(in); err != nil {
					return fmt.Errorf("required input file '%s' (%s): %w", key, in, err)
				}
			}
		case isOut:
			if out == "" {
				return fmt.Errorf("required output path '%s' is empty", key)
			}
		default:
			return fmt.Errorf("required path '%s' is not declared", key)
		}
	}

	stepLog, err := logger.NewStepLog(b.Props.Path, b.Props.Prefix, b.Props.Step, b.Props.CanWriteConsoleLog)
	if err != nil {
		return err
	}
	b.Log = stepLog
	return nil
}

// CheckRestart reports whether execution should be skipped because restart
// is enabled and every declared output already exists non-empty.
func (b *Base) CheckRestart() bool {
	if !b.Props.Restart {
		return false
	}
	outputs := make([]string, 0, len(b.IO.Out))
	for _, p := range b.IO.Out {
		outputs = append(outputs, p)
	}
	if fileutil.CheckCompleteFiles(outputs) {
		b.Log.Log("Restart is enabled, this step: %s will be skipped", b.Props.Step)
		logger.Info("Restart skip", "step", b.Props.Step)
		b.skipped = true
		return true
	}
	return false
}

// Skipped reports whether the last Launch was skipped by a restart check.
func (b *Base) Skipped() bool {
	return b.skipped
}

// StageFiles prepares the paths the composed command must use. For container
// runs it creates a sandbox directory, copies the inputs into it, and maps
// every path to its location under the container volume. Direct runs use the
// declared paths untouched.
func (b *Base) StageFiles() error {
	if !b.opts.Enabled() || b.Target.IsRemote {
		b.Staged = b.IO
		return nil
	}

	sandbox, err := fileutil.CreateUniqueDir(b.Props.Path, "sandbox_")
	if err != nil {
		return err
	}
	b.Sandbox = sandbox
	b.Log.Log("Creating %s staging directory", sandbox)

	staged := IOMap{In: map[string]string{}, Out: map[string]string{}}
	b.stagedOut = map[string]string{}

	for key, hostPath := range b.IO.In {
		if hostPath == "" {
			continue
		}
		stagedHost := filepath.Join(sandbox, filepath.Base(hostPath))
		if err := fileutil.CopyFile(hostPath, stagedHost); err != nil {
			return fmt.Errorf("failed to stage input '%s': %w", key, err)
		}
		staged.In[key] = b.opts.TranslatePath(stagedHost)
	}
	for key, hostPath := range b.IO.Out {
		if hostPath == "" {
			continue
		}
		stagedHost := filepath.Join(sandbox, filepath.Base(hostPath))
		b.stagedOut[key] = stagedHost
		staged.Out[key] = b.opts.TranslatePath(stagedHost)
	}

	b.Staged = staged
	return nil
}

// Execute wraps the composed command with the container invocation when one
// is configured and runs it, streaming output into the step logs.
func (b *Base) Execute(cmd []string) (int, error) {
	final := cmd
	if !b.Target.IsRemote {
		// Wrapping needs a sandbox to mount, so blocks that did not stage
		// their files run directly even when a container is configured.
		if b.Sandbox != "" {
			wrapped, err := b.opts.Wrap(b.Sandbox, cmd)
			if err != nil {
				return -1, err
			}
			final = wrapped
		}
		final = append([]string(nil), final...)
		final[0] = runner.LookBinary(final[0])
	}

	b.Log.Log("Executing: %s", util.JoinForShell(final))
	logger.Info("Launching block command",
		"block", b.StepName,
		"target", b.Target.ServerName,
		"command", strings.Join(final, " "))

	stdout := b.Log.Stdout()
	stderr := b.Log.Stderr()
	if b.Output != nil {
		stdout = io.MultiWriter(stdout, b.Output)
		stderr = io.MultiWriter(stderr, b.Output)
	}

	step := runner.Step{
		Name:    b.Props.Step,
		Command: final[0],
		Args:    final[1:],
		Target:  b.Target,
	}
	return runner.Run(step, stdout, stderr)
}

// CopyToHost copies staged outputs from the sandbox back to their declared
// host paths after a container run.
func (b *Base) CopyToHost() error {
	for key, stagedHost := range b.stagedOut {
		hostPath := b.IO.Out[key]
		if !fileutil.NotEmpty(stagedHost) {
			return fmt.Errorf("expected output '%s' was not produced in the staging directory", key)
		}
		if err := fileutil.CopyFile(stagedHost, hostPath); err != nil {
			return fmt.Errorf("failed to copy output '%s' to host: %w", key, err)
		}
	}
	return nil
}

// Cleanup removes the sandbox and any registered temporary files when
// remove_tmp is enabled, logging what was removed.
func (b *Base) Cleanup() {
	if !b.Props.RemoveTmp {
		return
	}
	paths := append([]string{}, b.TmpFiles...)
	if b.Sandbox != "" {
		paths = append(paths, b.Sandbox)
	}
	removed := fileutil.RemoveFiles(paths)
	sort.Strings(removed)
	if len(removed) > 0 {
		b.Log.Log("Removed: %s", strings.Join(removed, ", "))
	}
}

// Close releases the step logs.
func (b *Base) Close() {
	b.Log.Close()
}
