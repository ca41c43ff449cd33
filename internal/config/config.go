// Package config loads planner configuration files. A file declares
// named planner configurations (flat parameter maps with a "type"
// attribute) and per-group settings that reference them; the flattened
// result feeds a planning context directly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the conventional location of the planner
// configuration file.
const DefaultConfigPath = "config/planning.yaml"

// GroupConfig holds the per-group settings of a configuration file.
type GroupConfig struct {
	// DefaultPlannerConfig names the planner configuration used when a
	// request does not ask for one explicitly.
	DefaultPlannerConfig string `yaml:"default_planner_config"`
	// PlannerConfigs lists the configurations selectable for the group.
	PlannerConfigs []string `yaml:"planner_configs"`

	ProjectionEvaluator         string   `yaml:"projection_evaluator"`
	LongestValidSegmentFraction *float64 `yaml:"longest_valid_segment_fraction"`
	MaxVelocity                 *float64 `yaml:"max_velocity"`
	MaxAcceleration             *float64 `yaml:"max_acceleration"`
}

// File is the parsed planner configuration.
type File struct {
	// PlannerConfigs maps configuration names to their parameter maps.
	// Values keep their YAML types until flattening.
	PlannerConfigs map[string]map[string]interface{} `yaml:"planner_configs"`
	Groups         map[string]GroupConfig            `yaml:"groups"`
}

// Load reads and validates a planner configuration file. Partial files
// are fine; only referenced configurations must exist.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw configuration bytes.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return f, nil
}

// Validate checks internal consistency: every referenced planner
// configuration must exist and carry a "type", and numeric group
// settings must be in range.
func (f *File) Validate() error {
	for name, cfg := range f.PlannerConfigs {
		if _, ok := cfg["type"]; !ok {
			return fmt.Errorf("planner config %q: missing type attribute", name)
		}
	}
	for group, gc := range f.Groups {
		if gc.DefaultPlannerConfig != "" {
			if _, ok := f.PlannerConfigs[gc.DefaultPlannerConfig]; !ok {
				return fmt.Errorf("group %q: unknown default planner config %q", group, gc.DefaultPlannerConfig)
			}
		}
		for _, pc := range gc.PlannerConfigs {
			if _, ok := f.PlannerConfigs[pc]; !ok {
				return fmt.Errorf("group %q: unknown planner config %q", group, pc)
			}
		}
		if gc.LongestValidSegmentFraction != nil {
			if v := *gc.LongestValidSegmentFraction; v <= 0 || v > 1 {
				return fmt.Errorf("group %q: longest_valid_segment_fraction must be in (0, 1], got %v", group, v)
			}
		}
		if gc.MaxVelocity != nil && *gc.MaxVelocity <= 0 {
			return fmt.Errorf("group %q: max_velocity must be positive, got %v", group, *gc.MaxVelocity)
		}
		if gc.MaxAcceleration != nil && *gc.MaxAcceleration <= 0 {
			return fmt.Errorf("group %q: max_acceleration must be positive, got %v", group, *gc.MaxAcceleration)
		}
	}
	return nil
}

// ConfigNames returns the declared planner configuration names, sorted.
func (f *File) ConfigNames() []string {
	out := make([]string, 0, len(f.PlannerConfigs))
	for name := range f.PlannerConfigs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ContextConfig flattens the settings for one group into the string
// map a planning context consumes. plannerConfig selects a declared
// configuration; empty selects the group's default. Group-level
// settings fill in keys the planner configuration does not set.
func (f *File) ContextConfig(group, plannerConfig string) (map[string]string, error) {
	gc, ok := f.Groups[group]
	if !ok {
		return nil, fmt.Errorf("unknown group %q", group)
	}
	if plannerConfig == "" {
		plannerConfig = gc.DefaultPlannerConfig
	}

	out := make(map[string]string)
	if plannerConfig != "" {
		pc, ok := f.PlannerConfigs[plannerConfig]
		if !ok {
			return nil, fmt.Errorf("group %q: unknown planner config %q", group, plannerConfig)
		}
		for k, v := range pc {
			out[k] = flatten(v)
		}
	}

	if gc.ProjectionEvaluator != "" {
		setDefault(out, "projection_evaluator", gc.ProjectionEvaluator)
	}
	if gc.LongestValidSegmentFraction != nil {
		setDefault(out, "longest_valid_segment_fraction", flatten(*gc.LongestValidSegmentFraction))
	}
	if gc.MaxVelocity != nil {
		setDefault(out, "max_velocity", flatten(*gc.MaxVelocity))
	}
	if gc.MaxAcceleration != nil {
		setDefault(out, "max_acceleration", flatten(*gc.MaxAcceleration))
	}
	return out, nil
}

// setDefault writes the value only when the key is absent: explicit
// planner configuration entries win over group-level settings.
func setDefault(m map[string]string, key, val string) {
	if _, ok := m[key]; !ok {
		m[key] = val
	}
}

// flatten renders a YAML scalar as the string form a context expects.
func flatten(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
