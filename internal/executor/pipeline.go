package executor

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/formatter"
)

const (
	// DefaultTimeout bounds a single evaluation.
	DefaultTimeout = 10 * time.Second
	// DefaultStreamHead is how many leading stream values are retained for
	// navigation when a query produces multiple outputs.
	DefaultStreamHead = 8
	// DefaultStyledLines caps how many output lines get color styling.
	// Everything past the cap is appended as plain text so huge results
	// stay cheap to publish.
	DefaultStyledLines = 2000
)

// Options tune a Pipeline. Zero fields fall back to the defaults above.
type Options struct {
	Timeout     time.Duration
	StreamHead  int
	StyledLines int
	NoColor     bool
	Logger      logr.Logger
}

// Pipeline coordinates asynchronous evaluation. Sequence numbers order
// requests, Execute runs one request to completion off the UI goroutine,
// and results publish into the document cache only when they are newer than
// what is already visible.
type Pipeline struct {
	exec  Executor
	cache *document.Cache
	log   logr.Logger
	opts  Options
	seq   atomic.Uint64
}

// NewPipeline wires an executor to the document cache.
func NewPipeline(exec Executor, cache *document.Cache, opts Options) *Pipeline {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.StreamHead < 1 {
		opts.StreamHead = DefaultStreamHead
	}
	if opts.StyledLines == 0 {
		opts.StyledLines = DefaultStyledLines
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Pipeline{exec: exec, cache: cache, log: log, opts: opts}
}

// NextSeq allocates the sequence number for a new request. Numbers are
// strictly increasing for the lifetime of the pipeline.
func (p *Pipeline) NextSeq() uint64 { return p.seq.Add(1) }

// Outcome is what a finished request reports back to the caller. Exactly one
// of Snapshot, Diag and Err is set on completion, except that a superseded
// success carries Stale instead of a snapshot.
type Outcome struct {
	Seq      uint64
	Query    string
	Snapshot *document.Snapshot
	Diag     *Diagnostic
	Err      error
	Stale    bool
	Elapsed  time.Duration
}

// Execute runs one evaluation to completion and publishes the snapshot. It
// blocks for up to the configured timeout and is meant to run inside a
// tea.Cmd goroutine or a one-shot CLI path. A failed or stale evaluation
// leaves the cache exactly as it was.
func (p *Pipeline) Execute(ctx context.Context, seq uint64, query string) Outcome {
	start := time.Now()
	out := Outcome{Seq: seq, Query: query}

	cctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	raw, err := p.exec.Evaluate(cctx, query, p.cache.OriginalText())
	if err != nil {
		var diag *Diagnostic
		if errors.As(err, &diag) {
			out.Diag = diag
		} else {
			out.Err = err
		}
		out.Elapsed = time.Since(start)
		p.log.V(1).Info("evaluation failed", "seq", seq, "backend", p.exec.Name(), "err", err.Error())
		return out
	}

	raw = strings.TrimSuffix(raw, "\n")
	values, multi, perr := ParseOutput(raw, p.opts.StreamHead)
	if perr != nil {
		out.Err = perr
		out.Elapsed = time.Since(start)
		return out
	}
	var result interface{}
	if len(values) > 0 {
		result = values[0]
	}

	snap := &document.Snapshot{
		Seq:      seq,
		Query:    query,
		Result:   result,
		Stream:   values,
		Output:   raw,
		Rendered: p.render(raw),
		Type:     document.Classify(result, multi),
		Metrics:  document.ComputeMetrics(raw),
	}
	if !p.cache.Publish(snap) {
		out.Stale = true
		out.Elapsed = time.Since(start)
		p.log.V(1).Info("stale result discarded", "seq", seq)
		return out
	}
	out.Snapshot = snap
	out.Elapsed = time.Since(start)
	p.log.V(1).Info("snapshot published",
		"seq", seq, "type", snap.Type.String(), "lines", snap.Metrics.LineCount, "elapsed", out.Elapsed)
	return out
}

// render styles the leading output lines and passes the remainder through
// unstyled once the cap is hit. Styling never changes line structure, so
// the metrics computed on the plain text stay valid for the rendered text.
func (p *Pipeline) render(raw string) string {
	if p.opts.NoColor || raw == "" {
		return raw
	}
	if p.opts.StyledLines > 0 {
		if cut := nthNewline(raw, p.opts.StyledLines); cut >= 0 {
			return formatter.RenderJSON(raw[:cut], false) + raw[cut:]
		}
	}
	return formatter.RenderJSON(raw, false)
}

// nthNewline returns the byte offset of the n-th newline in s, or -1 when s
// has fewer than n newlines.
func nthNewline(s string, n int) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n--
			if n == 0 {
				return i
			}
		}
	}
	return -1
}
