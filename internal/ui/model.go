// Package ui is the interactive editor: a single query line with a
// suggestion popup, a result pane windowing the last published snapshot, and
// a status bar. Suggestions are computed synchronously on every keystroke;
// evaluation runs off the UI goroutine through the execution pipeline, with
// debounce IDs dropping stale keystroke echoes and the snapshot cache
// dropping stale results.
package ui

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/executor"
	"github.com/oakwood-commons/jqx/internal/history"
)

// DefaultDebounce is the keystroke-to-evaluation delay.
const DefaultDebounce = 150 * time.Millisecond

// Options wires a session together. Cache, Pipeline and Engine are required;
// everything else falls back to a sensible default.
type Options struct {
	Cache    *document.Cache
	Pipeline *executor.Pipeline
	Engine   *completion.Engine
	History  *history.History

	// Backend is the executor name shown in the status bar.
	Backend string
	// InitialQuery pre-fills the query line.
	InitialQuery string
	// Debounce is the delay between the last keystroke and evaluation.
	Debounce time.Duration
	// MaxRows caps the popup height. Zero uses the engine's suggestion cap.
	MaxRows int
	// Width and Height force the window size instead of tracking the
	// terminal.
	Width, Height int
	NoColor       bool
	Theme         *Theme
	Logger        logr.Logger
}

// evalDebounceMsg fires after the debounce delay. The ID is compared against
// the model's counter so only the latest pending query launches.
type evalDebounceMsg struct {
	id    int
	query string
}

// evalResultMsg carries a finished evaluation back to the UI goroutine.
type evalResultMsg struct {
	outcome executor.Outcome
}

// Model is the Bubble Tea model for the editor.
type Model struct {
	input    textinput.Model
	engine   *completion.Engine
	pipeline *executor.Pipeline
	cache    *document.Cache
	history  *history.History
	log      logr.Logger

	backend string
	theme   Theme
	noColor bool
	maxRows int

	// Suggestion popup state.
	completions   completion.Result
	selected      int
	suppressPopup bool

	// Result pane scroll position, clamped against the snapshot metrics.
	scrollY int
	scrollX int

	// Cached split of the visible snapshot's rendered text.
	paneLines []string
	paneSeq   uint64

	// Evaluation state.
	debounce     time.Duration
	debounceID   int
	pendingQuery string
	lastSeq      uint64
	evaluating   bool
	diag         *executor.Diagnostic
	errMsg       string
	elapsed      time.Duration

	// History search overlay (ctrl+r).
	histActive   bool
	histInput    textinput.Model
	histMatches  []string
	histSelected int

	width     int
	height    int
	forceSize bool
	quitting  bool
}

// NewModel builds the editor model. The initial evaluation is scheduled by
// Init, so the result pane populates as soon as the program starts.
func NewModel(opts Options) *Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = `.path.to.field, map(...), select(...)`
	ti.CharLimit = 500
	ti.SetWidth(76)
	ti.SetValue(opts.InitialQuery)
	ti.SetCursor(utf8.RuneCountInString(opts.InitialQuery))
	ti.Focus()

	hi := textinput.New()
	hi.Prompt = "search: "
	hi.CharLimit = 200
	hi.SetWidth(60)

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = completion.DefaultMaxSuggestions
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	hist := opts.History
	if hist == nil {
		hist = history.New("", log)
	}

	m := &Model{
		input:     ti,
		engine:    opts.Engine,
		pipeline:  opts.Pipeline,
		cache:     opts.Cache,
		history:   hist,
		log:       log,
		backend:   opts.Backend,
		theme:     theme,
		noColor:   opts.NoColor,
		maxRows:   maxRows,
		debounce:  debounce,
		histInput: hi,
		width:     80,
		height:    24,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.forceSize = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.forceSize = true
	}
	m.input.SetWidth(m.width - 4)
	return m
}

// Init starts cursor blinking and evaluates the initial query so the pane
// shows the document before the first keystroke.
func (m *Model) Init() tea.Cmd {
	m.refreshSuggestions()
	return tea.Batch(textinput.Blink, m.launchEval(m.effectiveQuery()))
}

// Update routes messages. Keys go to the history overlay when it is open,
// then to the popup and scroll handling, and finally to the query line.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evalDebounceMsg:
		// Only the latest pending query launches; earlier echoes are stale.
		if msg.id != m.debounceID || msg.query != m.pendingQuery {
			return m, nil
		}
		return m, m.launchEval(msg.query)

	case evalResultMsg:
		m.applyOutcome(msg.outcome)
		return m, nil

	case tea.WindowSizeMsg:
		if m.forceSize {
			return m, nil
		}
		if msg.Width > 0 {
			m.width = msg.Width
			m.input.SetWidth(m.width - 4)
			m.histInput.SetWidth(m.width - 8)
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if m.histActive {
			return m.updateHistorySearch(msg)
		}
		return m.updateEditor(msg)
	}
	return m, nil
}

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.suppressPopup = true
		return m, nil

	case "tab":
		m.cycleSelection(1)
		return m, nil

	case "shift+tab":
		m.cycleSelection(-1)
		return m, nil

	case "enter":
		if m.popupVisible() {
			if cmd, applied := m.acceptSelected(); applied {
				return m, cmd
			}
		}
		// Bare enter commits the query: record it and re-run immediately.
		m.history.Add(m.input.Value())
		m.debounceID++
		return m, m.launchEval(m.effectiveQuery())

	case "ctrl+u":
		m.input.SetValue("")
		m.input.SetCursor(0)
		m.suppressPopup = false
		m.refreshSuggestions()
		return m, m.scheduleEval()

	case "ctrl+p":
		if q, ok := m.history.Prev(); ok {
			return m, m.setQuery(q)
		}
		return m, nil

	case "ctrl+n":
		if q, ok := m.history.Next(); ok {
			return m, m.setQuery(q)
		}
		return m, nil

	case "ctrl+r":
		m.openHistorySearch()
		return m, nil

	case "up":
		if m.popupVisible() {
			m.cycleSelection(-1)
		} else {
			m.scrollBy(-1, 0)
		}
		return m, nil

	case "down":
		if m.popupVisible() {
			m.cycleSelection(1)
		} else {
			m.scrollBy(1, 0)
		}
		return m, nil

	case "pgup":
		m.scrollBy(-m.resultHeight(), 0)
		return m, nil

	case "pgdown":
		m.scrollBy(m.resultHeight(), 0)
		return m, nil

	case "alt+left":
		m.scrollBy(0, -8)
		return m, nil

	case "alt+right":
		m.scrollBy(0, 8)
		return m, nil
	}

	prevValue := m.input.Value()
	prevPos := m.input.Position()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != prevValue || m.input.Position() != prevPos {
		m.suppressPopup = false
		m.refreshSuggestions()
	}
	if m.input.Value() != prevValue {
		return m, tea.Batch(cmd, m.scheduleEval())
	}
	return m, cmd
}

// setQuery replaces the query line wholesale, as history recall does, and
// schedules an evaluation.
func (m *Model) setQuery(q string) tea.Cmd {
	m.input.SetValue(q)
	m.input.SetCursor(utf8.RuneCountInString(q))
	m.suppressPopup = true
	m.refreshSuggestions()
	return m.scheduleEval()
}

// effectiveQuery is what actually runs: a blank line means identity, so the
// pane falls back to the document itself.
func (m *Model) effectiveQuery() string {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return "."
	}
	return q
}

// cursorByte converts the input's rune cursor to the byte offset the
// suggestion engine works in.
func (m *Model) cursorByte() int {
	value := m.input.Value()
	pos := m.input.Position()
	for i := range value {
		if pos == 0 {
			return i
		}
		pos--
	}
	return len(value)
}

// scheduleEval arms the debounce timer for the current query. Every call
// invalidates the previous timer by bumping the ID.
func (m *Model) scheduleEval() tea.Cmd {
	m.debounceID++
	m.pendingQuery = m.effectiveQuery()
	id, query, delay := m.debounceID, m.pendingQuery, m.debounce
	return func() tea.Msg {
		time.Sleep(delay)
		return evalDebounceMsg{id: id, query: query}
	}
}

// launchEval allocates the next sequence number and runs the pipeline in the
// command goroutine. Publication ordering is enforced by the cache, not here.
func (m *Model) launchEval(query string) tea.Cmd {
	seq := m.pipeline.NextSeq()
	m.lastSeq = seq
	m.evaluating = true
	p := m.pipeline
	return func() tea.Msg {
		return evalResultMsg{outcome: p.Execute(context.Background(), seq, query)}
	}
}

// applyOutcome folds a finished evaluation into the view state. Snapshots
// were already published (or rejected) by the cache; what remains is the
// status line and the scroll clamp.
func (m *Model) applyOutcome(out executor.Outcome) {
	if out.Seq == m.lastSeq {
		m.evaluating = false
	}
	switch {
	case out.Snapshot != nil:
		m.diag = nil
		m.errMsg = ""
		m.elapsed = out.Elapsed
		m.scrollY = 0
		m.scrollX = 0
		m.clampScroll()
	case out.Stale:
		// A newer result is already visible.
	case out.Diag != nil:
		if out.Seq == m.lastSeq {
			m.diag = out.Diag
			m.errMsg = ""
		}
	case out.Err != nil:
		if out.Seq == m.lastSeq {
			m.errMsg = out.Err.Error()
			m.diag = nil
		}
	}
}

// dimmed reports whether the visible snapshot predates the current query,
// which is exactly when a diagnostic or error is active.
func (m *Model) dimmed() bool {
	return m.diag != nil || m.errMsg != ""
}

func (m *Model) scrollBy(dy, dx int) {
	m.scrollY += dy
	m.scrollX += dx
	m.clampScroll()
}

// clampScroll keeps the window inside the snapshot geometry as measured at
// publication time. The pane never scrolls past content that exists.
func (m *Model) clampScroll() {
	snap := m.cache.Last()
	maxY, maxX := 0, 0
	if snap != nil {
		maxY = snap.Metrics.LineCount - m.resultHeight()
		maxX = snap.Metrics.MaxWidth - m.resultWidth()
	}
	if maxY < 0 {
		maxY = 0
	}
	if maxX < 0 {
		maxX = 0
	}
	if m.scrollY > maxY {
		m.scrollY = maxY
	}
	if m.scrollY < 0 {
		m.scrollY = 0
	}
	if m.scrollX > maxX {
		m.scrollX = maxX
	}
	if m.scrollX < 0 {
		m.scrollX = 0
	}
}

// Query returns the current query line, for callers inspecting the final
// model after the program exits.
func (m *Model) Query() string {
	return m.input.Value()
}
