package limiter

import (
	"fmt"
	"strings"
)

// Config holds the output-limiting parameters for one-shot mode.
type Config struct {
	Head   int // Show only the first N lines (0 = unlimited)
	Offset int // Skip the first N lines (0 = no skip)
	Tail   int // Show only the last N lines (0 = disabled); mutually exclusive with Head
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Head and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Head < 0 {
		return fmt.Errorf("--head must be non-negative, got %d", c.Head)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}

	// Check for mutually exclusive flags
	if c.Head > 0 && c.Tail > 0 {
		return fmt.Errorf("--head and --tail are mutually exclusive")
	}

	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Head > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply applies the limiting configuration to the given output lines.
func (c Config) Apply(lines []string) []string {
	if !c.IsActive() {
		return lines
	}

	length := len(lines)

	// Handle --tail (show last N lines)
	if c.Tail > 0 {
		start := length - c.Tail
		if start < 0 {
			start = 0
		}
		return lines[start:]
	}

	// Handle --offset and --head
	start := c.Offset
	if start > length {
		start = length
	}

	end := length
	if c.Head > 0 {
		end = start + c.Head
		if end > length {
			end = length
		}
	}

	if start > end {
		start = end
	}

	return lines[start:end]
}

// ApplyText splits text into lines, applies the limit, and rejoins.
// A single trailing newline survives the round trip.
func (c Config) ApplyText(text string) string {
	if !c.IsActive() || text == "" {
		return text
	}

	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = strings.TrimSuffix(text, "\n")
	}

	lines := c.Apply(strings.Split(text, "\n"))
	out := strings.Join(lines, "\n")
	if trailing && len(lines) > 0 {
		out += "\n"
	}
	return out
}
