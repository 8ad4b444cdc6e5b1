// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package registry is the compiled-in catalog of building blocks. Each block
// package registers its metadata and a factory at init time; the CLI, the
// HTTP API and the CWL generator all read from the catalog.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"bioblocks/internal/block"
	"bioblocks/internal/config"
	"bioblocks/internal/runner"
)

// Format is an accepted file format with its EDAM ontology identifier.
type Format struct {
	Extension string `json:"extension" yaml:"extension"`
	EDAM      string `json:"edam,omitempty" yaml:"edam,omitempty"`
}

// FileSpec describes one input or output path of a block.
type FileSpec struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Required    bool     `json:"required" yaml:"required"`
	Formats     []Format `json:"formats,omitempty" yaml:"formats,omitempty"`
}

// PropertySpec documents one configuration property of a block.
type PropertySpec struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Default     string `json:"default" yaml:"default"`
	Description string `json:"description" yaml:"description"`
	// WF marks workflow-level properties shared by all blocks
	WF bool `json:"wf,omitempty" yaml:"wf,omitempty"`
}

// Spec is the full metadata record of a building block.
type Spec struct {
	Name        string         `json:"name" yaml:"name"`
	Summary     string         `json:"summary" yaml:"summary"`
	Description string         `json:"description" yaml:"description"`
	Inputs      []FileSpec     `json:"inputs" yaml:"inputs"`
	Outputs     []FileSpec     `json:"outputs" yaml:"outputs"`
	Properties  []PropertySpec `json:"properties" yaml:"properties"`
	// Doc is the block's long-form documentation in Markdown
	Doc string `json:"-" yaml:"-"`
}

// RequiredPaths returns the names of the required inputs and outputs.
func (s Spec) RequiredPaths() []string {
	var req []string
	for _, f := range s.Inputs {
		if f.Required {
			req = append(req, f.Name)
		}
	}
	for _, f := range s.Outputs {
		if f.Required {
			req = append(req, f.Name)
		}
	}
	return req
}

// Factory builds a ready-to-launch block instance.
type Factory func(io block.IOMap, props config.Properties, target runner.Target) block.Block

// Entry pairs a block's metadata with its factory.
type Entry struct {
	Spec    Spec
	Factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]Entry{}
)

// Register adds a block to the catalog. Registering the same name twice is a
// programming error and panics.
func Register(spec Spec, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := entries[spec.Name]; exists {
		panic(fmt.Sprintf("registry: block '%s' registered twice", spec.Name))
	}
	entries[spec.Name] = Entry{Spec: spec, Factory: factory}
}

// Get returns the catalog entry for a block name.
func Get(name string) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()
	entry, ok := entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("unknown block '%s'", name)
	}
	return entry, nil
}

// Names returns the sorted block names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the catalog entries sorted by name.
func All() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	all := make([]Entry, 0, len(entries))
	for _, e := range entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Spec.Name < all[j].Spec.Name })
	return all
}

// CommonProperties are the workflow-level property docs shared by every
// block; block packages append their specific properties to these.
func CommonProperties() []PropertySpec {
	return []PropertySpec{
		{Name: "remove_tmp", Type: "bool", Default: "true", Description: "Remove temporal files.", WF: true},
		{Name: "restart", Type: "bool", Default: "false", Description: "Do not execute if output files exist.", WF: true},
		{Name: "container_path", Type: "str", Default: "", Description: "Container runtime path (docker or singularity)."},
		{Name: "container_image", Type: "str", Default: "mmbirb/zip:latest", Description: "Container image definition."},
		{Name: "container_volume_path", Type: "str", Default: "/tmp", Description: "Container volume path definition."},
		{Name: "container_working_dir", Type: "str", Default: "", Description: "Container working directory definition."},
		{Name: "container_user_id", Type: "str", Default: "", Description: "Container user id definition."},
		{Name: "container_shell_path", Type: "str", Default: "/bin/bash", Description: "Path to the default shell inside the container."},
	}
}
