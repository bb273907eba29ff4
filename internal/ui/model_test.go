package ui

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/executor"
)

const fixtureText = `{"users":[{"name":"ada","age":36},{"name":"lin","age":29}],"active":true}`

func testModel(t *testing.T) *Model {
	t.Helper()
	var root interface{}
	if err := json.Unmarshal([]byte(fixtureText), &root); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	cache := document.NewCache(root, fixtureText)
	pipe := executor.NewPipeline(&executor.Gojq{}, cache, executor.Options{NoColor: true})
	eng := completion.NewEngine(cache, completion.Options{})
	return NewModel(Options{
		Cache:    cache,
		Pipeline: pipe,
		Engine:   eng,
		Backend:  "gojq",
		NoColor:  true,
		Width:    80,
		Height:   24,
		Debounce: time.Millisecond,
	})
}

func typeKeys(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// runPendingEval fires the armed debounce by hand and feeds the evaluation
// result back, standing in for the program loop.
func runPendingEval(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(evalDebounceMsg{id: m.debounceID, query: m.pendingQuery})
	if cmd == nil {
		t.Fatalf("expected an evaluation launch for query %q", m.pendingQuery)
	}
	msg := cmd()
	res, ok := msg.(evalResultMsg)
	if !ok {
		t.Fatalf("expected evalResultMsg, got %T", msg)
	}
	m.Update(res)
}

func TestTypingProducesFieldSuggestions(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".u")

	if !m.popupVisible() {
		t.Fatalf("expected popup after typing a path")
	}
	sugs := m.completions.Suggestions
	if len(sugs) != 1 || sugs[0].Text != "users" {
		t.Fatalf("expected single suggestion users, got %+v", sugs)
	}
	if sugs[0].Type != "array" {
		t.Fatalf("expected array type annotation, got %q", sugs[0].Type)
	}
}

func TestTabCyclesThroughSuggestions(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".")

	if got := len(m.completions.Suggestions); got != 2 {
		t.Fatalf("expected two root fields, got %d", got)
	}
	if m.completions.Suggestions[0].Text != "active" {
		t.Fatalf("expected alphabetical order, got %q first", m.completions.Suggestions[0].Text)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.selected != 1 {
		t.Fatalf("expected selection 1 after tab, got %d", m.selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.selected != 0 {
		t.Fatalf("expected wraparound to 0, got %d", m.selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.selected != 1 {
		t.Fatalf("expected shift+tab to cycle back, got %d", m.selected)
	}
}

func TestEnterAcceptsSelectedSuggestion(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".u")

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.input.Value(); got != ".users" {
		t.Fatalf("expected accepted value .users, got %q", got)
	}
	if m.pendingQuery != ".users" {
		t.Fatalf("expected eval scheduled for .users, got %q", m.pendingQuery)
	}
	if m.popupVisible() {
		t.Fatalf("expected popup closed after acceptance")
	}
}

func TestAcceptReplacesPartialMidQuery(t *testing.T) {
	m := testModel(t)
	m.input.SetValue(".u | keys")
	m.input.SetCursor(2)
	m.refreshSuggestions()

	if !m.popupVisible() {
		t.Fatalf("expected popup at mid-query cursor")
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.input.Value(); got != ".users | keys" {
		t.Fatalf("expected partial replaced in place, got %q", got)
	}
}

func TestBareEnterRunsAndRecordsHistory(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".users")
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected immediate launch on enter")
	}
	res, ok := cmd().(evalResultMsg)
	if !ok {
		t.Fatalf("expected evalResultMsg from launch")
	}
	m.Update(res)

	snap := m.cache.Last()
	if snap == nil || snap.Query != ".users" {
		t.Fatalf("expected published snapshot for .users, got %+v", snap)
	}
	if snap.Type != document.TypeObjectArray {
		t.Fatalf("expected object array result, got %v", snap.Type)
	}
	entries := m.history.Entries()
	if len(entries) != 1 || entries[0] != ".users" {
		t.Fatalf("expected history entry, got %v", entries)
	}
}

func TestEnterWithExactTokenRunsQuery(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".users")

	// The sole suggestion equals what is typed, so enter runs instead of
	// re-inserting.
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected launch when acceptance is a no-op")
	}
	if len(m.history.Entries()) != 1 {
		t.Fatalf("expected query recorded, got %v", m.history.Entries())
	}
}

func TestDebouncedEvalFlow(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".users")
	runPendingEval(t, m)

	snap := m.cache.Last()
	if snap == nil {
		t.Fatalf("expected snapshot after debounced eval")
	}
	if snap.Query != ".users" {
		t.Fatalf("expected query .users, got %q", snap.Query)
	}
	if m.evaluating {
		t.Fatalf("expected evaluating cleared after result")
	}
	if m.dimmed() {
		t.Fatalf("expected no diagnostic after success")
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".u")
	staleID := m.debounceID
	typeKeys(m, "s")

	_, cmd := m.Update(evalDebounceMsg{id: staleID, query: ".u"})
	if cmd != nil {
		t.Fatalf("expected stale debounce dropped")
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	m := testModel(t)
	cmdOld := m.launchEval(".users")
	cmdNew := m.launchEval(".active")

	// The newer request finishes first; the older result must not clobber it.
	newRes := cmdNew().(evalResultMsg)
	oldRes := cmdOld().(evalResultMsg)
	m.Update(newRes)
	m.Update(oldRes)

	snap := m.cache.Last()
	if snap == nil || snap.Query != ".active" {
		t.Fatalf("expected newest result visible, got %+v", snap)
	}
	if !oldRes.outcome.Stale {
		t.Fatalf("expected older outcome marked stale")
	}
}

func TestDiagnosticKeepsSnapshotAndDims(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".users")
	runPendingEval(t, m)
	before := m.cache.Last()

	typeKeys(m, " | foo(")
	runPendingEval(t, m)

	if m.diag == nil {
		t.Fatalf("expected diagnostic for malformed query")
	}
	if !m.dimmed() {
		t.Fatalf("expected pane dimmed while diagnostic active")
	}
	if m.cache.Last() != before {
		t.Fatalf("expected snapshot untouched by failed evaluation")
	}
	if !strings.Contains(m.renderStatus(), "✗") {
		t.Fatalf("expected diagnostic marker in status, got %q", m.renderStatus())
	}
}

func TestDiagnosticClearsOnNextSuccess(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".users | foo(")
	runPendingEval(t, m)
	if m.diag == nil {
		t.Fatalf("expected diagnostic first")
	}

	m.input.SetValue(".users")
	m.input.SetCursor(6)
	m.pendingQuery = ".users"
	m.debounceID++
	runPendingEval(t, m)

	if m.diag != nil {
		t.Fatalf("expected diagnostic cleared after success")
	}
	if m.dimmed() {
		t.Fatalf("expected pane undimmed after success")
	}
}

func TestCtrlUClearsQuery(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".users")

	m.Update(tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl})
	if m.input.Value() != "" {
		t.Fatalf("expected cleared input, got %q", m.input.Value())
	}
	if m.pendingQuery != "." {
		t.Fatalf("expected identity query scheduled, got %q", m.pendingQuery)
	}
}

func TestHistoryRecallKeys(t *testing.T) {
	m := testModel(t)
	m.history.Add(".users")
	m.history.Add(".active")

	m.Update(tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl})
	if m.input.Value() != ".active" {
		t.Fatalf("expected newest entry first, got %q", m.input.Value())
	}
	m.Update(tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl})
	if m.input.Value() != ".users" {
		t.Fatalf("expected older entry, got %q", m.input.Value())
	}
	m.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	if m.input.Value() != ".active" {
		t.Fatalf("expected walk forward, got %q", m.input.Value())
	}
}

func TestEscDismissesPopupUntilNextInput(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".u")
	if !m.popupVisible() {
		t.Fatalf("expected popup before esc")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.popupVisible() {
		t.Fatalf("expected popup dismissed by esc")
	}

	typeKeys(m, "s")
	if !m.popupVisible() {
		t.Fatalf("expected popup back after typing")
	}
}

func TestTabResummonsDismissedPopup(t *testing.T) {
	m := testModel(t)
	typeKeys(m, ".u")
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !m.popupVisible() {
		t.Fatalf("expected tab to reopen the popup")
	}
}

func TestScrollKeysMoveResultPane(t *testing.T) {
	m := testModel(t)
	text := strings.Repeat("line\n", 99) + "line"
	m.cache.Publish(&document.Snapshot{
		Seq:      m.pipeline.NextSeq(),
		Query:    ".",
		Rendered: text,
		Output:   text,
		Metrics:  document.ComputeMetrics(text),
	})
	m.suppressPopup = true

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.scrollY != 1 {
		t.Fatalf("expected scroll down, got %d", m.scrollY)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.scrollY != 0 {
		t.Fatalf("expected scroll back up, got %d", m.scrollY)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.scrollY != 0 {
		t.Fatalf("expected clamp at top, got %d", m.scrollY)
	}

	m.scrollBy(1000, 0)
	maxY := 100 - m.resultHeight()
	if m.scrollY != maxY {
		t.Fatalf("expected clamp at %d, got %d", maxY, m.scrollY)
	}
}

func TestHorizontalScrollClampsAgainstMetrics(t *testing.T) {
	m := testModel(t)
	wide := strings.Repeat("x", 200)
	m.cache.Publish(&document.Snapshot{
		Seq:      m.pipeline.NextSeq(),
		Query:    ".",
		Rendered: wide,
		Output:   wide,
		Metrics:  document.ComputeMetrics(wide),
	})

	m.scrollBy(0, 10000)
	if want := 200 - m.resultWidth(); m.scrollX != want {
		t.Fatalf("expected horizontal clamp at %d, got %d", want, m.scrollX)
	}
	m.scrollBy(0, -10000)
	if m.scrollX != 0 {
		t.Fatalf("expected clamp at column 0, got %d", m.scrollX)
	}
}

func TestWindowResizeReclamps(t *testing.T) {
	m := testModel(t)
	text := strings.Repeat("line\n", 29) + "line"
	m.cache.Publish(&document.Snapshot{
		Seq:      m.pipeline.NextSeq(),
		Query:    ".",
		Rendered: text,
		Output:   text,
		Metrics:  document.ComputeMetrics(text),
	})
	m.forceSize = false
	m.scrollBy(1000, 0)
	before := m.scrollY

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if m.scrollY > before {
		t.Fatalf("expected scroll clamped after resize, got %d", m.scrollY)
	}
	if m.height != 40 {
		t.Fatalf("expected height updated, got %d", m.height)
	}
}

func TestInitialQueryPrefill(t *testing.T) {
	var root interface{}
	if err := json.Unmarshal([]byte(fixtureText), &root); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	cache := document.NewCache(root, fixtureText)
	pipe := executor.NewPipeline(&executor.Gojq{}, cache, executor.Options{NoColor: true})
	m := NewModel(Options{
		Cache:        cache,
		Pipeline:     pipe,
		Engine:       completion.NewEngine(cache, completion.Options{}),
		InitialQuery: ".users",
		NoColor:      true,
		Width:        80,
		Height:       24,
	})
	if m.input.Value() != ".users" {
		t.Fatalf("expected prefilled query, got %q", m.input.Value())
	}
	if m.effectiveQuery() != ".users" {
		t.Fatalf("expected effective query .users, got %q", m.effectiveQuery())
	}
}

func TestEffectiveQueryBlankIsIdentity(t *testing.T) {
	m := testModel(t)
	if m.effectiveQuery() != "." {
		t.Fatalf("expected identity for blank input, got %q", m.effectiveQuery())
	}
	m.input.SetValue("   ")
	if m.effectiveQuery() != "." {
		t.Fatalf("expected identity for whitespace, got %q", m.effectiveQuery())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if !m.quitting {
		t.Fatalf("expected quitting flag set")
	}
}
