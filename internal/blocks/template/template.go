// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package template contains the two reference building blocks shipped with
// bioblocks: a plain binary wrapper and a container-capable zip wrapper.
// New blocks are expected to start from these.
package template

import (
	"bioblocks/internal/block"
	"bioblocks/internal/config"
	"bioblocks/internal/registry"
	"bioblocks/internal/runner"
)

// Template wraps a generic tool using the -i/-o flag convention. It is the
// minimal example of a building block: no container support, no staging.
type Template struct {
	block.Base

	FloatProperty   float64
	StringProperty  string
	BooleanProperty bool
	Binary          string
}

// NewTemplate builds a Template block from declared paths and properties.
func NewTemplate(io block.IOMap, props config.Properties, target runner.Target) block.Block {
	binary := props.BinaryPath
	if binary == "" {
		binary = "echo"
	}
	return &Template{
		Base:            block.NewBase("template", io, props, target),
		FloatProperty:   props.Float("float_property", 1.0),
		StringProperty:  props.String("string_property", "foo"),
		BooleanProperty: props.Bool("boolean_property", true),
		Binary:          binary,
	}
}

func (t *Template) Name() string { return "template" }

// Launch executes the wrapped tool and returns its exit code.
func (t *Template) Launch() (int, error) {
	if err := t.Setup("input_file_path", "output_file_path"); err != nil {
		return -1, err
	}
	defer t.Close()

	if t.CheckRestart() {
		return 0, nil
	}

	cmd := []string{t.Binary,
		"-i", t.IO.In["input_file_path"],
		"-o", t.IO.Out["output_file_path"],
		"-f", config.FormatFloat(t.FloatProperty),
		"-s", t.StringProperty,
	}
	if t.BooleanProperty {
		cmd = append(cmd, "-b")
		t.Log.Log("Appending optional boolean property")
	}

	t.Log.Log("Float property: %s", config.FormatFloat(t.FloatProperty))
	t.Log.Log("String property: %s", t.StringProperty)

	t.TmpFiles = append(t.TmpFiles, "temp_file1", "temp_file2")

	code, err := t.Execute(cmd)
	t.Cleanup()
	return code, err
}

func init() {
	registry.Register(registry.Spec{
		Name:        "template",
		Summary:     "Wrapper of a generic command line tool using the -i/-o convention.",
		Description: "Minimal example block: runs the configured binary with the declared input and output paths plus its float, string and boolean options.",
		Inputs: []registry.FileSpec{
			{Name: "input_file_path", Description: "Path to the input file.", Required: true,
				Formats: []registry.Format{{Extension: "txt", EDAM: "format_2330"}}},
		},
		Outputs: []registry.FileSpec{
			{Name: "output_file_path", Description: "Path to the output file.", Required: true,
				Formats: []registry.Format{{Extension: "txt", EDAM: "format_2330"}}},
		},
		Properties: append([]registry.PropertySpec{
			{Name: "float_property", Type: "float", Default: "1.0", Description: "Example of float property."},
			{Name: "string_property", Type: "str", Default: "foo", Description: "Example of string property."},
			{Name: "boolean_property", Type: "bool", Default: "true", Description: "Example of boolean property."},
			{Name: "binary_path", Type: "str", Default: "echo", Description: "Executable binary for the wrapped tool."},
		}, registry.CommonProperties()...),
		Doc: templateDoc,
	}, NewTemplate)
}

const templateDoc = `# template

Wrapper of a generic command line tool following the ` + "`-i/-o`" + ` flag convention.

## Usage

    bioblocks run template --config config.yml \
      --input_file_path /path/to/input.txt \
      --output_file_path /path/to/output.txt

## Properties

* **float_property** (*float*) - (1.0) Example of float property.
* **string_property** (*str*) - ("foo") Example of string property.
* **boolean_property** (*bool*) - (true) Example of boolean property.
* **binary_path** (*str*) - ("echo") Executable binary for the wrapped tool.
`
