// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package workflow reads YAML workflow files and runs their steps in order.
// A workflow names blocks from the registry, gives each step its paths and
// properties, and may direct individual steps to remote execution hosts.
package workflow

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"bioblocks/internal/block"
	"bioblocks/internal/config"
	"bioblocks/internal/fileutil"
	"bioblocks/internal/logger"
	"bioblocks/internal/registry"
	"bioblocks/internal/runner"
)

// Step is one workflow entry: which block to run, where, and with what.
type Step struct {
	Name       string            `yaml:"name"`
	Block      string            `yaml:"block"`
	Host       string            `yaml:"host,omitempty"`
	Paths      map[string]string `yaml:"paths"`
	Properties map[string]any    `yaml:"properties"`
}

// Workflow is a parsed workflow file.
type Workflow struct {
	Name             string         `yaml:"name"`
	WorkingDirPath   string         `yaml:"working_dir_path"`
	GlobalProperties map[string]any `yaml:"global_properties"`

	// ArchivePath, when set, collects every step output into a zip archive
	// after the run succeeds.
	ArchivePath string `yaml:"archive_path"`

	Steps []Step `yaml:"steps"`
}

// Read parses a workflow file and validates that every step names a known
// block and carries a unique step name.
func Read(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}

	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}

	if len(wf.Steps) == 0 {
		return nil, fmt.Errorf("workflow %s declares no steps", path)
	}

	seen := map[string]bool{}
	for i := range wf.Steps {
		step := &wf.Steps[i]
		if step.Name == "" {
			step.Name = fmt.Sprintf("step%d", i+1)
		}
		if seen[step.Name] {
			return nil, fmt.Errorf("duplicate step name '%s'", step.Name)
		}
		seen[step.Name] = true
		if _, err := registry.Get(step.Block); err != nil {
			return nil, fmt.Errorf("step '%s': %w", step.Name, err)
		}
	}

	return &wf, nil
}

// EventType distinguishes workflow run events.
type EventType int

const (
	EventStepStarted EventType = iota
	EventStepOutput
	EventStepSkipped
	EventStepFinished
	EventDone
)

// Event is a progress notification emitted while a workflow runs.
type Event struct {
	Type     EventType
	Index    int
	Step     string
	Line     string
	ExitCode int
	Err      error
}

// eventWriter forwards a block's combined output to the event channel.
type eventWriter struct {
	events chan<- Event
	index  int
	step   string
}

func (w eventWriter) Write(p []byte) (int, error) {
	w.events <- Event{Type: EventStepOutput, Index: w.index, Step: w.step, Line: string(p)}
	return len(p), nil
}

// Runner executes a workflow sequentially, stopping at the first failing
// step.
type Runner struct {
	Workflow *Workflow

	// AppConfig resolves step host names to SSH host configurations.
	AppConfig config.Config

	// Events receives progress notifications when non-nil. The channel is
	// closed when the run finishes.
	Events chan Event

	// produced collects the declared output paths of completed steps for
	// end-of-run archiving.
	produced []string
}

// Run executes every step in order. It returns the first step error, or nil
// when all steps succeed.
func (r *Runner) Run() error {
	if r.Events != nil {
		defer close(r.Events)
	}

	logger.Info("Starting workflow", "name", r.Workflow.Name, "steps", len(r.Workflow.Steps))

	for i, step := range r.Workflow.Steps {
		if err := r.runStep(i, step); err != nil {
			r.emit(Event{Type: EventDone, Err: err})
			return err
		}
	}

	if err := r.archiveOutputs(); err != nil {
		r.emit(Event{Type: EventDone, Err: err})
		return err
	}

	r.emit(Event{Type: EventDone})
	logger.Info("Workflow completed", "name", r.Workflow.Name)
	return nil
}

// archiveOutputs packages the produced step outputs into the workflow's
// archive when archive_path is set. Declared outputs that were never
// produced are left out.
func (r *Runner) archiveOutputs() error {
	if r.Workflow.ArchivePath == "" {
		return nil
	}
	var files []string
	for _, p := range r.produced {
		if fileutil.NotEmpty(p) {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := fileutil.ZipFiles(r.Workflow.ArchivePath, files); err != nil {
		return fmt.Errorf("failed to archive workflow outputs: %w", err)
	}
	logger.Info("Archived workflow outputs",
		"archive", r.Workflow.ArchivePath, "files", len(files))
	return nil
}

func (r *Runner) runStep(index int, step Step) error {
	entry, err := registry.Get(step.Block)
	if err != nil {
		return err
	}

	r.emit(Event{Type: EventStepStarted, Index: index, Step: step.Name})

	props := r.stepProperties(step)

	target := runner.LocalTarget()
	if step.Host != "" {
		host, err := r.AppConfig.FindHost(step.Host)
		if err != nil {
			return fmt.Errorf("step '%s': %w", step.Name, err)
		}
		target = runner.RemoteTarget(host)
	}

	paths := splitPaths(entry.Spec, step.Paths)

	blk := entry.Factory(paths, props, target)
	if out := r.outputWriter(index, step.Name); out != nil {
		if sink, ok := blk.(interface{ SetOutput(io.Writer) }); ok {
			sink.SetOutput(out)
		}
	}
	code, err := blk.Launch()
	if err != nil {
		r.emit(Event{Type: EventStepFinished, Index: index, Step: step.Name, ExitCode: code, Err: err})
		return fmt.Errorf("step '%s' failed: %w", step.Name, err)
	}

	for _, p := range paths.Out {
		if p != "" {
			r.produced = append(r.produced, p)
		}
	}

	if sk, ok := blk.(interface{ Skipped() bool }); ok && sk.Skipped() {
		r.emit(Event{Type: EventStepSkipped, Index: index, Step: step.Name})
		return nil
	}

	r.emit(Event{Type: EventStepFinished, Index: index, Step: step.Name, ExitCode: code})
	return nil
}

// stepProperties merges workflow globals with the step's own properties and
// fills in the step name and working directory for log placement. When
// neither the step nor the workflow sets a working directory, the app
// configuration's default applies.
func (r *Runner) stepProperties(step Step) config.Properties {
	merged := map[string]any{}
	for k, v := range r.Workflow.GlobalProperties {
		merged[k] = v
	}
	for k, v := range step.Properties {
		merged[k] = v
	}
	if _, ok := merged["step"]; !ok {
		merged["step"] = step.Name
	}
	if _, ok := merged["path"]; !ok && r.Workflow.WorkingDirPath != "" {
		merged["path"] = r.Workflow.WorkingDirPath
	}
	props := config.PropertiesFromMap(merged)
	if err := r.AppConfig.ApplyWorkingDir(&props); err != nil {
		logger.Warn("Could not resolve configured working directory", "error", err)
	}
	return props
}

func (r *Runner) outputWriter(index int, step string) *eventWriter {
	if r.Events == nil {
		return nil
	}
	return &eventWriter{events: r.Events, index: index, step: step}
}

func (r *Runner) emit(ev Event) {
	if r.Events != nil {
		r.Events <- ev
	}
}

// splitPaths sorts a flat path mapping into the block's declared inputs and
// outputs.
func splitPaths(spec registry.Spec, paths map[string]string) block.IOMap {
	m := block.IOMap{In: map[string]string{}, Out: map[string]string{}}
	outNames := map[string]bool{}
	for _, o := range spec.Outputs {
		outNames[o.Name] = true
	}
	inNames := map[string]bool{}
	for _, i := range spec.Inputs {
		inNames[i.Name] = true
	}
	for k, v := range paths {
		switch {
		case outNames[k]:
			m.Out[k] = v
		case inNames[k]:
			m.In[k] = v
		}
	}
	return m
}
