package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// DetectTerminalSize returns the terminal dimensions, falling back to 80x24
// when stdout is not a terminal.
func DetectTerminalSize() (width, height int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}

// Run starts the editor and blocks until the user quits. It returns the
// final query line so callers can print or persist it. Extra ProgramOptions
// (custom IO for tests, for example) are passed through to tea.NewProgram.
func Run(opts Options, progOpts ...tea.ProgramOption) (string, error) {
	m := NewModel(opts)
	if opts.Width > 0 && opts.Height > 0 {
		progOpts = append(progOpts, tea.WithWindowSize(opts.Width, opts.Height))
	}

	prog := tea.NewProgram(m, progOpts...)
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm.Query(), nil
	}
	return "", nil
}
