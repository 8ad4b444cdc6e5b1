// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package cwl renders CWL CommandLineTool descriptors for catalog blocks so
// they can be dropped into CWL workflows. File formats carry their EDAM
// ontology identifiers.
package cwl

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"bioblocks/internal/registry"
)

const (
	cwlVersion = "v1.2"
	edamBase   = "http://edamontology.org/"
)

// Binding is a CWL input binding.
type Binding struct {
	Position int    `yaml:"position"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Input is a CWL tool input.
type Input struct {
	Label        string   `yaml:"label,omitempty"`
	Doc          string   `yaml:"doc,omitempty"`
	Type         string   `yaml:"type"`
	Format       string   `yaml:"format,omitempty"`
	InputBinding *Binding `yaml:"inputBinding,omitempty"`
	Default      any      `yaml:"default,omitempty"`
}

// OutputBinding locates a CWL tool output after the run.
type OutputBinding struct {
	Glob string `yaml:"glob"`
}

// Output is a CWL tool output.
type Output struct {
	Label         string        `yaml:"label,omitempty"`
	Doc           string        `yaml:"doc,omitempty"`
	Type          string        `yaml:"type"`
	Format        string        `yaml:"format,omitempty"`
	OutputBinding OutputBinding `yaml:"outputBinding"`
}

// Tool is a CWL CommandLineTool document.
type Tool struct {
	CWLVersion  string            `yaml:"cwlVersion"`
	Class       string            `yaml:"class"`
	Label       string            `yaml:"label"`
	Doc         string            `yaml:"doc,omitempty"`
	BaseCommand []string          `yaml:"baseCommand"`
	Inputs      map[string]Input  `yaml:"inputs"`
	Outputs     map[string]Output `yaml:"outputs"`
	Namespaces  map[string]string `yaml:"$namespaces,omitempty"`
	Schemas     []string          `yaml:"$schemas,omitempty"`
}

// GenerateTool builds the CWL descriptor for one catalog block. The base
// command invokes the bioblocks binary with the block's run subcommand, so
// the descriptor works anywhere the binary is installed.
func GenerateTool(spec registry.Spec) Tool {
	tool := Tool{
		CWLVersion:  cwlVersion,
		Class:       "CommandLineTool",
		Label:       spec.Summary,
		Doc:         spec.Description,
		BaseCommand: []string{"bioblocks", "run", spec.Name},
		Inputs:      map[string]Input{},
		Outputs:     map[string]Output{},
		Namespaces:  map[string]string{"edam": edamBase},
		Schemas:     []string{edamBase + "EDAM.owl"},
	}

	position := 1
	for _, in := range spec.Inputs {
		typ := "File"
		if !in.Required {
			typ = "File?"
		}
		tool.Inputs[in.Name] = Input{
			Doc:          in.Description,
			Type:         typ,
			Format:       edamFormat(in.Formats),
			InputBinding: &Binding{Position: position, Prefix: "--" + in.Name},
		}
		position++
	}

	// Output paths are passed as plain strings: the wrapped tool creates the
	// file at that location and the output binding picks it up by glob.
	for _, out := range spec.Outputs {
		nameIn := out.Name
		tool.Inputs[nameIn] = Input{
			Doc:          out.Description,
			Type:         "string",
			InputBinding: &Binding{Position: position, Prefix: "--" + out.Name},
			Default:      defaultFileName(spec.Name, out),
		}
		position++

		tool.Outputs[out.Name] = Output{
			Doc:           out.Description,
			Type:          "File",
			Format:        edamFormat(out.Formats),
			OutputBinding: OutputBinding{Glob: "$(inputs." + out.Name + ")"},
		}
	}

	tool.Inputs["config"] = Input{
		Doc:          "Configuration file for the block.",
		Type:         "File?",
		InputBinding: &Binding{Position: position, Prefix: "--config"},
	}

	return tool
}

// WriteTool renders the descriptor for a block into dir as <name>.cwl and
// returns the written path.
func WriteTool(spec registry.Spec, dir string) (string, error) {
	tool := GenerateTool(spec)

	data, err := yaml.Marshal(tool)
	if err != nil {
		return "", fmt.Errorf("failed to marshal CWL descriptor for %s: %w", spec.Name, err)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	path := filepath.Join(dir, spec.Name+".cwl")
	header := []byte("#!/usr/bin/env cwl-runner\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return "", fmt.Errorf("failed to write CWL descriptor %s: %w", path, err)
	}
	return path, nil
}

// edamFormat returns the EDAM IRI of the first declared format.
func edamFormat(formats []registry.Format) string {
	for _, f := range formats {
		if f.EDAM != "" {
			return "edam:" + f.EDAM
		}
	}
	return ""
}

func defaultFileName(blockName string, out registry.FileSpec) string {
	ext := "out"
	if len(out.Formats) > 0 && out.Formats[0].Extension != "" {
		ext = out.Formats[0].Extension
	}
	return blockName + "." + ext
}
