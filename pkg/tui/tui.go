// Package tui exposes the interactive query editor to embedding
// applications. A host hands over a loaded document and a Config; Run blocks
// until the user quits and returns the final query line.
package tui

import (
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/config"
	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/executor"
	"github.com/oakwood-commons/jqx/internal/history"
	"github.com/oakwood-commons/jqx/internal/ui"
	"github.com/oakwood-commons/jqx/pkg/loader"
)

// Config holds host-provided settings for running the editor. The zero value
// works with sensible defaults; DefaultConfig returns the CLI's defaults
// instead, including the XDG history location.
type Config struct {
	// Query pre-fills the editor line.
	Query string

	// JQPath locates the jq binary; empty resolves "jq" from $PATH.
	JQPath string
	// Internal forces the embedded engine even when a jq binary exists.
	Internal bool
	// Timeout bounds a single evaluation.
	Timeout time.Duration

	// MaxSuggestions caps the popup.
	MaxSuggestions int
	// ScanAhead widens array navigation to the first N elements when
	// collecting field suggestions.
	ScanAhead int
	// Debounce is the pause after the last keystroke before an evaluation
	// launches.
	Debounce time.Duration
	// StyledLines caps how many result lines get color styling.
	StyledLines int

	// HistoryFile persists executed queries; empty keeps recall in memory
	// only.
	HistoryFile string

	// Width and Height force the window size; zero tracks the terminal.
	Width  int
	Height int

	NoColor bool
	Logger  logr.Logger
}

// DefaultConfig returns a config with the same defaults as the CLI.
func DefaultConfig() Config {
	s := config.Default()
	return Config{
		JQPath:         s.JQPath,
		Timeout:        s.Timeout,
		MaxSuggestions: s.MaxSuggestions,
		ScanAhead:      s.ScanAhead,
		Debounce:       s.Debounce,
		StyledLines:    s.StyledLines,
		HistoryFile:    s.HistoryFile,
	}
}

// Run starts the editor over a loaded document and blocks until the user
// quits. It returns the final query line so hosts can print or persist it.
// Extra tea.ProgramOption values pass through to the program, which lets
// hosts redirect IO:
//
//	doc, _ := loader.Load(jsonText)
//	query, err := tui.Run(doc, tui.DefaultConfig())
func Run(doc loader.Document, cfg Config, progOpts ...tea.ProgramOption) (string, error) {
	log := cfg.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	cache := document.NewCache(doc.Root, doc.Text)
	backend := executor.Choose(cfg.JQPath, cfg.Internal, log)
	pipeline := executor.NewPipeline(backend, cache, executor.Options{
		Timeout:     cfg.Timeout,
		StyledLines: cfg.StyledLines,
		NoColor:     cfg.NoColor,
		Logger:      log,
	})
	engine := completion.NewEngine(cache, completion.Options{
		MaxSuggestions: cfg.MaxSuggestions,
		ScanAhead:      cfg.ScanAhead,
	})

	return ui.Run(ui.Options{
		Cache:        cache,
		Pipeline:     pipeline,
		Engine:       engine,
		History:      history.New(cfg.HistoryFile, log),
		Backend:      backend.Name(),
		InitialQuery: cfg.Query,
		Debounce:     cfg.Debounce,
		Width:        cfg.Width,
		Height:       cfg.Height,
		NoColor:      cfg.NoColor,
		Logger:       log,
	}, progOpts...)
}

// RunObject loads an already parsed Go value (or a raw string / byte slice,
// which go through format detection) and runs the editor over it.
func RunObject(value any, cfg Config, progOpts ...tea.ProgramOption) (string, error) {
	doc, err := loader.LoadObject(value)
	if err != nil {
		return "", err
	}
	return Run(doc, cfg, progOpts...)
}

// DetectTerminalSize returns the terminal dimensions, falling back to 80x24
// when stdout is not a terminal. Useful for hosts that want to force a size:
//
//	w, h := tui.DetectTerminalSize()
func DetectTerminalSize() (width, height int) {
	return ui.DetectTerminalSize()
}

// WithIO returns tea.ProgramOption values to set custom input and output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
