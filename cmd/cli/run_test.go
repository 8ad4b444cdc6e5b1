// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"bioblocks/internal/config"
	"bioblocks/internal/registry"
)

func TestLaunchBlockUsesConfiguredWorkingDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	work := t.TempDir()

	if err := config.SaveConfig(config.Config{WorkingDirPath: work}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := filepath.Join(dir, "tool.sh")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\ncp \"$2\" \"$4\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	// The run configuration sets no path, so the app configuration's
	// working directory decides where the step log lands.
	cfgFile := filepath.Join(dir, "run.yml")
	runCfg := "global_properties:\n  can_write_console_log: false\n  binary_path: " + tool + "\n"
	if err := os.WriteFile(cfgFile, []byte(runCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	entry, err := registry.Get("template")
	if err != nil {
		t.Fatal(err)
	}
	pathFlags := map[string]*string{
		"input_file_path":  &in,
		"output_file_path": &out,
	}

	code, err := launchBlock(entry, cfgFile, "", "", "", pathFlags)
	if err != nil {
		t.Fatalf("launchBlock: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if _, err := os.Stat(filepath.Join(work, "template_log.out")); err != nil {
		t.Errorf("step log not in the configured working directory: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("output = %q", data)
	}
}
