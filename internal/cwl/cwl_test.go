// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cwl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bioblocks/internal/registry"
)

func sampleSpec() registry.Spec {
	return registry.Spec{
		Name:        "template_container",
		Summary:     "Wrapper of the zip tool.",
		Description: "Compresses inputs into a zip archive.",
		Inputs: []registry.FileSpec{
			{Name: "input_file_path1", Description: "First input.", Required: true,
				Formats: []registry.Format{{Extension: "top", EDAM: "format_3881"}}},
			{Name: "input_file_path2", Description: "Second input (optional).",
				Formats: []registry.Format{{Extension: "dcd", EDAM: "format_3878"}}},
		},
		Outputs: []registry.FileSpec{
			{Name: "output_file_path", Description: "The archive.", Required: true,
				Formats: []registry.Format{{Extension: "zip", EDAM: "format_3987"}}},
		},
	}
}

func TestGenerateTool(t *testing.T) {
	tool := GenerateTool(sampleSpec())

	if tool.CWLVersion != "v1.2" {
		t.Errorf("cwlVersion = %q", tool.CWLVersion)
	}
	if tool.Class != "CommandLineTool" {
		t.Errorf("class = %q", tool.Class)
	}
	want := []string{"bioblocks", "run", "template_container"}
	if len(tool.BaseCommand) != 3 || tool.BaseCommand[2] != want[2] {
		t.Errorf("baseCommand = %v", tool.BaseCommand)
	}

	in1, ok := tool.Inputs["input_file_path1"]
	if !ok {
		t.Fatal("input_file_path1 missing")
	}
	if in1.Type != "File" {
		t.Errorf("required input type = %q", in1.Type)
	}
	if in1.Format != "edam:format_3881" {
		t.Errorf("input format = %q", in1.Format)
	}
	if in1.InputBinding == nil || in1.InputBinding.Prefix != "--input_file_path1" {
		t.Errorf("input binding = %+v", in1.InputBinding)
	}

	if in2 := tool.Inputs["input_file_path2"]; in2.Type != "File?" {
		t.Errorf("optional input type = %q", in2.Type)
	}

	// The output path travels as a string input with a sensible default.
	outIn, ok := tool.Inputs["output_file_path"]
	if !ok {
		t.Fatal("output path input missing")
	}
	if outIn.Type != "string" {
		t.Errorf("output path input type = %q", outIn.Type)
	}
	if outIn.Default != "template_container.zip" {
		t.Errorf("output default = %v", outIn.Default)
	}

	out, ok := tool.Outputs["output_file_path"]
	if !ok {
		t.Fatal("output missing")
	}
	if out.OutputBinding.Glob != "$(inputs.output_file_path)" {
		t.Errorf("output glob = %q", out.OutputBinding.Glob)
	}
	if out.Format != "edam:format_3987" {
		t.Errorf("output format = %q", out.Format)
	}

	if cfg, ok := tool.Inputs["config"]; !ok || cfg.Type != "File?" {
		t.Error("config input missing or not optional")
	}

	if tool.Namespaces["edam"] != "http://edamontology.org/" {
		t.Errorf("edam namespace = %q", tool.Namespaces["edam"])
	}
}

func TestWriteTool(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cwl")
	path, err := WriteTool(sampleSpec(), dir)
	if err != nil {
		t.Fatalf("WriteTool: %v", err)
	}
	if filepath.Base(path) != "template_container.cwl" {
		t.Errorf("descriptor path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "#!/usr/bin/env cwl-runner\n") {
		t.Error("missing cwl-runner shebang")
	}
	for _, want := range []string{"cwlVersion: v1.2", "class: CommandLineTool", "$namespaces", "edam:format_3987"} {
		if !strings.Contains(text, want) {
			t.Errorf("descriptor missing %q", want)
		}
	}
}
