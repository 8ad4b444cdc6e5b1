// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package container composes the docker/singularity invocations that wrap a
// building block's command line, translating sandbox paths between the host
// and the container volume.
package container

import (
	"fmt"
	"path/filepath"
	"strings"

	"bioblocks/internal/config"
	"bioblocks/internal/util"
)

// Runtimes accepted in the container_path property.
const (
	RuntimeDocker      = "docker"
	RuntimeSingularity = "singularity"
)

// Options describes a container invocation, mirroring the container_*
// properties of a building block.
type Options struct {
	Path       string // runtime binary: "docker", "singularity", or empty for direct execution
	Image      string
	VolumePath string // mount point of the host sandbox inside the container
	WorkingDir string
	UserID     string
	ShellPath  string
}

// FromProperties extracts the container options from a property set.
func FromProperties(p config.Properties) Options {
	return Options{
		Path:       p.ContainerPath,
		Image:      p.ContainerImage,
		VolumePath: p.ContainerVolumePath,
		WorkingDir: p.ContainerWorkingDir,
		UserID:     p.ContainerUserID,
		ShellPath:  p.ContainerShellPath,
	}
}

// Enabled reports whether a container runtime is configured.
func (o Options) Enabled() bool {
	return o.Path != ""
}

// TranslatePath maps a host path inside the sandbox to its location under
// the container volume. Paths outside the sandbox map by base name as well,
// since only the sandbox is mounted.
func (o Options) TranslatePath(hostPath string) string {
	return filepath.Join(o.VolumePath, filepath.Base(hostPath))
}

// Wrap prefixes a composed command with the container invocation, mounting
// the host sandbox at the container volume path. The wrapped command runs
// through the container shell so multi-argument commands behave as on the
// host. Returns the command unchanged when no runtime is configured.
func (o Options) Wrap(hostSandbox string, cmd []string) ([]string, error) {
	if !o.Enabled() {
		return cmd, nil
	}
	if o.Image == "" {
		return nil, fmt.Errorf("container_path is set to '%s' but container_image is empty", o.Path)
	}

	shell := o.ShellPath
	if shell == "" {
		shell = "/bin/sh"
	}
	inner := util.JoinForShell(cmd)

	switch runtime(o.Path) {
	case RuntimeDocker:
		args := []string{o.Path, "run", "--rm",
			"-v", hostSandbox + ":" + o.VolumePath}
		if o.UserID != "" {
			args = append(args, "--user", o.UserID)
		}
		if o.WorkingDir != "" {
			args = append(args, "-w", o.WorkingDir)
		}
		args = append(args, o.Image, shell, "-c", inner)
		return args, nil

	case RuntimeSingularity:
		args := []string{o.Path, "exec", "-e",
			"--bind", hostSandbox + ":" + o.VolumePath,
			o.Image, shell, "-c", inner}
		return args, nil
	}

	return nil, fmt.Errorf("unsupported container runtime '%s' (expected docker or singularity)", o.Path)
}

// runtime normalizes the runtime name so absolute binary paths like
// /usr/bin/docker or singularity wrappers still select the right verb.
func runtime(path string) string {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, RuntimeSingularity), strings.Contains(base, "apptainer"):
		return RuntimeSingularity
	case strings.Contains(base, RuntimeDocker), strings.Contains(base, "podman"):
		return RuntimeDocker
	}
	return base
}
