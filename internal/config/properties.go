// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package config

import (
	"fmt"
	"strconv"
)

// Properties holds the flat option mapping every building block understands.
// Typed fields cover the options common to all blocks; block-specific options
// stay in Extra and are read through the typed accessors.
type Properties struct {
	// RemoveTmp removes temporary files after execution ([WF property])
	RemoveTmp bool

	// Restart skips execution when all output files already exist ([WF property])
	Restart bool

	// BinaryPath is the executable for the wrapped tool
	BinaryPath string

	// Container invocation options. ContainerPath selects the runtime
	// ("docker" or "singularity"); empty means direct host execution.
	ContainerPath       string
	ContainerImage      string
	ContainerVolumePath string
	ContainerWorkingDir string
	ContainerUserID     string
	ContainerShellPath  string

	// Prefix, Step and Path drive the step log file naming and placement
	Prefix string
	Step   string
	Path   string

	// CanWriteConsoleLog mirrors step log messages to stdout
	CanWriteConsoleLog bool

	// Extra keeps every key of the source mapping, including the ones already
	// captured in typed fields
	Extra map[string]any
}

// DefaultProperties returns the documented defaults for the common options.
func DefaultProperties() Properties {
	return Properties{
		RemoveTmp:           true,
		Restart:             false,
		ContainerImage:      "mmbirb/zip:latest",
		ContainerVolumePath: "/tmp",
		ContainerShellPath:  "/bin/bash",
		CanWriteConsoleLog:  true,
		Extra:               map[string]any{},
	}
}

// PropertiesFromMap builds Properties from a decoded configuration mapping,
// applying the documented defaults for absent keys.
func PropertiesFromMap(m map[string]any) Properties {
	p := DefaultProperties()
	if m == nil {
		return p
	}
	p.Extra = m

	p.RemoveTmp = p.Bool("remove_tmp", p.RemoveTmp)
	p.Restart = p.Bool("restart", p.Restart)
	p.BinaryPath = p.String("binary_path", p.BinaryPath)
	p.ContainerPath = p.String("container_path", p.ContainerPath)
	p.ContainerImage = p.String("container_image", p.ContainerImage)
	p.ContainerVolumePath = p.String("container_volume_path", p.ContainerVolumePath)
	p.ContainerWorkingDir = p.String("container_working_dir", p.ContainerWorkingDir)
	p.ContainerUserID = p.String("container_user_id", p.ContainerUserID)
	p.ContainerShellPath = p.String("container_shell_path", p.ContainerShellPath)
	p.Prefix = p.String("prefix", p.Prefix)
	p.Step = p.String("step", p.Step)
	p.Path = p.String("path", p.Path)
	p.CanWriteConsoleLog = p.Bool("can_write_console_log", p.CanWriteConsoleLog)

	return p
}

// Bool reads a boolean option from the mapping, tolerating the string forms
// that appear in hand-written YAML/JSON configs.
func (p Properties) Bool(key string, def bool) bool {
	v, ok := p.Extra[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		if err == nil {
			return b
		}
	}
	return def
}

// String reads a string option from the mapping.
func (p Properties) String(key, def string) string {
	v, ok := p.Extra[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	return def
}

// Float reads a floating point option from the mapping.
func (p Properties) Float(key string, def float64) float64 {
	v, ok := p.Extra[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// Int reads an integer option from the mapping.
func (p Properties) Int(key string, def int) int {
	v, ok := p.Extra[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		i, err := strconv.Atoi(t)
		if err == nil {
			return i
		}
	}
	return def
}

// FormatFloat renders a float the way command lines expect it (%g).
func FormatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
