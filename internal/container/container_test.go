// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package container

import (
	"reflect"
	"testing"

	"bioblocks/internal/config"
)

func TestFromProperties(t *testing.T) {
	props := config.PropertiesFromMap(map[string]any{
		"container_path":  "docker",
		"container_image": "biocontainers/zip:v3.0",
	})
	o := FromProperties(props)
	if !o.Enabled() {
		t.Fatal("container should be enabled")
	}
	if o.Image != "biocontainers/zip:v3.0" {
		t.Errorf("image = %q", o.Image)
	}
	// Defaults flow through from the property set.
	if o.VolumePath != "/tmp" {
		t.Errorf("volume path = %q", o.VolumePath)
	}
	if o.ShellPath != "/bin/bash" {
		t.Errorf("shell path = %q", o.ShellPath)
	}

	if FromProperties(config.DefaultProperties()).Enabled() {
		t.Error("container enabled without container_path")
	}
}

func TestTranslatePath(t *testing.T) {
	o := Options{VolumePath: "/tmp"}
	if got := o.TranslatePath("/data/sandbox_x/input.txt"); got != "/tmp/input.txt" {
		t.Errorf("TranslatePath = %q", got)
	}
}

func TestWrapDisabled(t *testing.T) {
	cmd := []string{"zip", "-j", "out.zip", "in.txt"}
	got, err := Options{}.Wrap("/data/sandbox_x", cmd)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cmd) {
		t.Fatalf("Wrap without runtime changed the command: %v", got)
	}
}

func TestWrapDocker(t *testing.T) {
	o := Options{
		Path:       "docker",
		Image:      "mmbirb/zip:latest",
		VolumePath: "/tmp",
		UserID:     "1001",
		ShellPath:  "/bin/bash",
	}
	got, err := o.Wrap("/data/sandbox_x", []string{"zip", "-j", "/tmp/out.zip", "/tmp/in.txt"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"docker", "run", "--rm",
		"-v", "/data/sandbox_x:/tmp",
		"--user", "1001",
		"mmbirb/zip:latest", "/bin/bash", "-c",
		"zip '-j' '/tmp/out.zip' '/tmp/in.txt'",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrap docker = %v\nwant %v", got, want)
	}
}

func TestWrapSingularity(t *testing.T) {
	o := Options{
		Path:       "singularity",
		Image:      "zip.sif",
		VolumePath: "/tmp",
		ShellPath:  "/bin/sh",
	}
	got, err := o.Wrap("/data/sandbox_x", []string{"zip", "-j", "/tmp/out.zip"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"singularity", "exec", "-e",
		"--bind", "/data/sandbox_x:/tmp",
		"zip.sif", "/bin/sh", "-c",
		"zip '-j' '/tmp/out.zip'",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrap singularity = %v\nwant %v", got, want)
	}
}

func TestWrapRuntimeAliases(t *testing.T) {
	o := Options{Path: "/usr/bin/podman", Image: "img", VolumePath: "/tmp"}
	got, err := o.Wrap("/sb", []string{"true"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "/usr/bin/podman" || got[1] != "run" {
		t.Fatalf("podman should use the docker verb: %v", got)
	}

	o = Options{Path: "apptainer", Image: "img.sif", VolumePath: "/tmp"}
	got, err = o.Wrap("/sb", []string{"true"})
	if err != nil {
		t.Fatal(err)
	}
	if got[1] != "exec" {
		t.Fatalf("apptainer should use the singularity verb: %v", got)
	}
}

func TestWrapErrors(t *testing.T) {
	if _, err := (Options{Path: "docker"}).Wrap("/sb", []string{"true"}); err == nil {
		t.Error("missing image should be an error")
	}
	if _, err := (Options{Path: "rkt", Image: "img"}).Wrap("/sb", []string{"true"}); err == nil {
		t.Error("unknown runtime should be an error")
	}
}
