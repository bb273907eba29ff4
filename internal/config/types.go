// Package config defines the user-facing configuration schema and the
// resolved runtime settings. Precedence is defaults, then the config file,
// then command-line flags; pointer fields distinguish "unset" from a zero
// value during the merge.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration schema.
type File struct {
	App AppSection `yaml:"app,omitempty"`
	UI  UISection  `yaml:"ui,omitempty"`
}

// AppSection configures evaluation behavior.
type AppSection struct {
	JQPath   string    `yaml:"jq_path,omitempty"`
	Internal *bool     `yaml:"internal,omitempty"`
	Timeout  *Duration `yaml:"timeout,omitempty"`
	Debug    *bool     `yaml:"debug,omitempty"`
}

// UISection configures the interactive editor.
type UISection struct {
	MaxSuggestions *int      `yaml:"max_suggestions,omitempty"`
	ScanAhead      *int      `yaml:"scan_ahead,omitempty"`
	Debounce       *Duration `yaml:"debounce,omitempty"`
	HistoryFile    string    `yaml:"history_file,omitempty"`
	NoColor        *bool     `yaml:"no_color,omitempty"`
	StyledLines    *int      `yaml:"styled_lines,omitempty"`
}

// Duration wraps time.Duration so YAML fields read like "150ms" or "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
