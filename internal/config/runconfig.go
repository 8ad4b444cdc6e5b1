// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StepConfig is the per-step section of a run configuration: file paths plus
// a flat properties mapping.
type StepConfig struct {
	Paths      map[string]string `yaml:"paths" json:"paths"`
	Properties map[string]any    `yaml:"properties" json:"properties"`
}

// SystemConfig is a named overlay selected with --system. Its properties are
// applied on top of the global and step properties, and its working
// directory, when set, replaces the run-level one.
type SystemConfig struct {
	WorkingDirPath string         `yaml:"working_dir_path" json:"working_dir_path"`
	Properties     map[string]any `yaml:"properties" json:"properties"`
}

// RunConfig is a parsed run configuration file. The file is a mapping with a
// few reserved keys (working_dir_path, global_properties, systems); every
// other top-level key names a step.
type RunConfig struct {
	WorkingDirPath   string
	GlobalProperties map[string]any
	Systems          map[string]SystemConfig
	Steps            map[string]StepConfig
}

// reserved top-level keys of a run configuration file
const (
	keyWorkingDir = "working_dir_path"
	keyGlobal     = "global_properties"
	keySystems    = "systems"
	keyProperties = "properties"
	keyPaths      = "paths"
)

// ReadRunConfig parses a YAML or JSON run configuration file (format chosen
// by extension, YAML by default). An empty path yields an empty config so
// blocks run purely on their defaults.
func ReadRunConfig(path string) (*RunConfig, error) {
	cfg := &RunConfig{
		GlobalProperties: map[string]any{},
		Systems:          map[string]SystemConfig{},
		Steps:            map[string]StepConfig{},
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config %s: %w", path, err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse run config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse run config %s: %w", path, err)
		}
	}

	for key, value := range raw {
		switch key {
		case keyWorkingDir:
			if s, ok := value.(string); ok {
				cfg.WorkingDirPath = s
			}
		case keyGlobal:
			cfg.GlobalProperties = toStringMap(value)
		case keySystems:
			for name, sys := range toStringMap(value) {
				sysMap := toStringMap(sys)
				sc := SystemConfig{Properties: toStringMap(sysMap[keyProperties])}
				if s, ok := sysMap[keyWorkingDir].(string); ok {
					sc.WorkingDirPath = s
				}
				cfg.Systems[name] = sc
			}
		default:
			stepMap := toStringMap(value)
			if stepMap == nil {
				// Top-level scalars outside the reserved keys are treated as
				// global properties, matching loosely written configs.
				cfg.GlobalProperties[key] = value
				continue
			}
			step := StepConfig{
				Paths:      map[string]string{},
				Properties: toStringMap(stepMap[keyProperties]),
			}
			for k, v := range toStringMap(stepMap[keyPaths]) {
				if s, ok := v.(string); ok {
					step.Paths[k] = s
				}
			}
			// A step written without paths/properties nesting is a bare
			// properties mapping.
			if len(step.Paths) == 0 && step.Properties == nil {
				step.Properties = stepMap
			}
			cfg.Steps[key] = step
		}
	}

	return cfg, nil
}

// PropertyMap merges the property mappings for a step/system selection.
// Order: global properties, then the step's properties, then the system
// overlay. An unknown step or system is an error.
func (c *RunConfig) PropertyMap(step, system string) (map[string]any, error) {
	merged := map[string]any{}
	for k, v := range c.GlobalProperties {
		merged[k] = v
	}

	if step != "" {
		sc, ok := c.Steps[step]
		if !ok {
			return nil, fmt.Errorf("step '%s' not found in run config", step)
		}
		for k, v := range sc.Properties {
			merged[k] = v
		}
		merged["step"] = step
	}

	if system != "" {
		sys, ok := c.Systems[system]
		if !ok {
			return nil, fmt.Errorf("system '%s' not found in run config", system)
		}
		for k, v := range sys.Properties {
			merged[k] = v
		}
	}

	if _, ok := merged["path"]; !ok {
		if wd := c.ResolveWorkingDir(system); wd != "" {
			merged["path"] = wd
		}
	}

	return merged, nil
}

// Properties returns the typed property set for a step/system selection.
func (c *RunConfig) Properties(step, system string) (Properties, error) {
	m, err := c.PropertyMap(step, system)
	if err != nil {
		return Properties{}, err
	}
	return PropertiesFromMap(m), nil
}

// Paths returns the file paths declared for a step, or nil when the step has
// none.
func (c *RunConfig) Paths(step string) map[string]string {
	if step == "" {
		return nil
	}
	return c.Steps[step].Paths
}

// ResolveWorkingDir returns the effective working directory for a system
// selection.
func (c *RunConfig) ResolveWorkingDir(system string) string {
	if system != "" {
		if sys, ok := c.Systems[system]; ok && sys.WorkingDirPath != "" {
			return sys.WorkingDirPath
		}
	}
	return c.WorkingDirPath
}

// toStringMap normalizes the map types the YAML and JSON decoders produce.
func toStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}
