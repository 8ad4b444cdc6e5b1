// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package template

import (
	"bioblocks/internal/block"
	"bioblocks/internal/config"
	"bioblocks/internal/registry"
	"bioblocks/internal/runner"
)

// TemplateContainer wraps the zip tool and demonstrates the full block
// lifecycle including optional container delegation: inputs are staged into
// a sandbox, the sandbox is mounted inside the container, and outputs are
// copied back to the host afterwards.
type TemplateContainer struct {
	block.Base

	BooleanProperty bool
	Binary          string
}

// NewTemplateContainer builds a TemplateContainer block.
func NewTemplateContainer(io block.IOMap, props config.Properties, target runner.Target) block.Block {
	binary := props.BinaryPath
	if binary == "" {
		binary = "zip"
	}
	return &TemplateContainer{
		Base:            block.NewBase("template_container", io, props, target),
		BooleanProperty: props.Bool("boolean_property", true),
		Binary:          binary,
	}
}

func (t *TemplateContainer) Name() string { return "template_container" }

// Launch executes the wrapped tool, inside a container when one is
// configured, and returns its exit code.
func (t *TemplateContainer) Launch() (int, error) {
	if err := t.Setup("input_file_path1", "output_file_path"); err != nil {
		return -1, err
	}
	defer t.Close()

	if t.CheckRestart() {
		return 0, nil
	}

	if err := t.StageFiles(); err != nil {
		return -1, err
	}

	// zip -j stores entries without directory prefixes
	cmd := []string{t.Binary, "-j"}
	if t.BooleanProperty {
		cmd = append(cmd, "-v")
		t.Log.Log("Appending optional boolean property")
	}
	cmd = append(cmd,
		t.Staged.Out["output_file_path"],
		t.Staged.In["input_file_path1"],
	)
	if optional := t.Staged.In["input_file_path2"]; optional != "" {
		cmd = append(cmd, optional)
		t.Log.Log("Appending optional argument to command line")
	}

	code, err := t.Execute(cmd)
	if err != nil {
		t.Cleanup()
		return code, err
	}

	if copyErr := t.CopyToHost(); copyErr != nil {
		t.Cleanup()
		return code, copyErr
	}

	t.Cleanup()
	return code, nil
}

func init() {
	registry.Register(registry.Spec{
		Name:        "template_container",
		Summary:     "Wrapper of the zip tool with optional Docker/Singularity delegation.",
		Description: "Compresses the declared input files into a zip archive. When container_path is set the tool runs inside the configured image with the staging sandbox mounted at container_volume_path.",
		Inputs: []registry.FileSpec{
			{Name: "input_file_path1", Description: "Description for the first input file path.", Required: true,
				Formats: []registry.Format{{Extension: "top", EDAM: "format_3881"}}},
			{Name: "input_file_path2", Description: "Description for the second input file path (optional).",
				Formats: []registry.Format{{Extension: "dcd", EDAM: "format_3878"}}},
		},
		Outputs: []registry.FileSpec{
			{Name: "output_file_path", Description: "Description for the output file path.", Required: true,
				Formats: []registry.Format{{Extension: "zip", EDAM: "format_3987"}}},
		},
		Properties: append([]registry.PropertySpec{
			{Name: "boolean_property", Type: "bool", Default: "true", Description: "Example of boolean property."},
			{Name: "binary_path", Type: "str", Default: "zip", Description: "Executable binary for the wrapped tool."},
		}, registry.CommonProperties()...),
		Doc: templateContainerDoc,
	}, NewTemplateContainer)
}

const templateContainerDoc = `# template_container

Wrapper of the zip tool demonstrating optional container delegation.

## Usage

    bioblocks run template_container --config config.yml \
      --input_file_path1 /path/to/myTopology.top \
      --input_file_path2 /path/to/mytrajectory.dcd \
      --output_file_path /path/to/newCompressedFile.zip

## Container example

    template_container:
      properties:
        boolean_property: true
        container_path: docker
        container_image: mmbirb/zip:latest
        container_volume_path: /tmp

## Properties

* **boolean_property** (*bool*) - (true) Example of boolean property.
* **binary_path** (*str*) - ("zip") Executable binary for the wrapped tool.
* **remove_tmp** (*bool*) - (true) Remove temporal files.
* **restart** (*bool*) - (false) Do not execute if output files exist.
* **container_path** (*str*) - ("") Container runtime path.
* **container_image** (*str*) - ("mmbirb/zip:latest") Container image definition.
* **container_volume_path** (*str*) - ("/tmp") Container volume path definition.
* **container_working_dir** (*str*) - ("") Container working directory definition.
* **container_user_id** (*str*) - ("") Container user id definition.
* **container_shell_path** (*str*) - ("/bin/bash") Path to the default shell inside the container.
`
