package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/executor"
)

// DefaultDebounce is the pause after the last keystroke before an
// evaluation launches.
const DefaultDebounce = 150 * time.Millisecond

// Settings is the fully resolved runtime configuration.
type Settings struct {
	JQPath         string
	Internal       bool
	Timeout        time.Duration
	Debug          bool
	MaxSuggestions int
	ScanAhead      int
	Debounce       time.Duration
	HistoryFile    string
	NoColor        bool
	StyledLines    int
}

// Default returns the baseline settings before any file or flag applies.
func Default() Settings {
	return Settings{
		JQPath:         executor.DefaultBinary,
		Timeout:        executor.DefaultTimeout,
		MaxSuggestions: completion.DefaultMaxSuggestions,
		ScanAhead:      completion.DefaultScanAhead,
		Debounce:       DefaultDebounce,
		HistoryFile:    DefaultHistoryPath(),
		StyledLines:    executor.DefaultStyledLines,
	}
}

// DefaultHistoryPath places the query history under XDG_DATA_HOME, falling
// back to ~/.local/share. An empty return disables history persistence.
func DefaultHistoryPath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "jqx", "history")
}

// Merge returns s with every value the file sets applied on top.
func (s Settings) Merge(f File) Settings {
	if f.App.JQPath != "" {
		s.JQPath = f.App.JQPath
	}
	if f.App.Internal != nil {
		s.Internal = *f.App.Internal
	}
	if f.App.Timeout != nil {
		s.Timeout = time.Duration(*f.App.Timeout)
	}
	if f.App.Debug != nil {
		s.Debug = *f.App.Debug
	}
	if f.UI.MaxSuggestions != nil {
		s.MaxSuggestions = *f.UI.MaxSuggestions
	}
	if f.UI.ScanAhead != nil {
		s.ScanAhead = *f.UI.ScanAhead
	}
	if f.UI.Debounce != nil {
		s.Debounce = time.Duration(*f.UI.Debounce)
	}
	if f.UI.HistoryFile != "" {
		s.HistoryFile = f.UI.HistoryFile
	}
	if f.UI.NoColor != nil {
		s.NoColor = *f.UI.NoColor
	}
	if f.UI.StyledLines != nil {
		s.StyledLines = *f.UI.StyledLines
	}
	return s
}

// Validate rejects values no component can operate with.
func (s Settings) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	if s.MaxSuggestions <= 0 {
		return fmt.Errorf("max suggestions must be positive, got %d", s.MaxSuggestions)
	}
	if s.ScanAhead < 0 {
		return fmt.Errorf("scan ahead must be non-negative, got %d", s.ScanAhead)
	}
	if s.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative, got %s", s.Debounce)
	}
	if s.StyledLines < 0 {
		return fmt.Errorf("styled lines must be non-negative, got %d", s.StyledLines)
	}
	return nil
}

// Load reads and decodes a config file. A missing path is not an error when
// optional is true, so the default config path may simply not exist.
func Load(path string, optional bool) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return f, nil
		}
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("decode config %s: %w", path, err)
	}
	return f, nil
}

// DefaultConfigPath is where Load looks when --config-file is not given:
// XDG_CONFIG_HOME (or ~/.config) /jqx/config.yaml.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "jqx", "config.yaml")
}
