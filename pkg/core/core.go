// Package core provides a minimal embeddable API for loading a document,
// evaluating jq queries against it, and computing editor suggestions,
// without the interactive UI.
//
//	engine, err := core.New(myData)
//	if err != nil {
//		return err
//	}
//	snap, err := engine.Evaluate(ctx, ".items | length")
//	if err != nil {
//		return err
//	}
//	fmt.Println(snap.Output)
package core

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/executor"
	"github.com/oakwood-commons/jqx/pkg/loader"
)

// Snapshot is one successful evaluation: the parsed values, the raw and
// rendered output text, the result classification and display metrics.
type Snapshot = document.Snapshot

// ResultType classifies a result's shape.
type ResultType = document.ResultType

// Diagnostic is a structured evaluation failure reported by the backend:
// the message plus a 1-based source position when one was given. Evaluate
// returns it as the error; branch with errors.As.
type Diagnostic = executor.Diagnostic

// Executor evaluates a query against a serialized document. Hosts can
// implement it to plug in a custom backend.
type Executor = executor.Executor

// Result is the suggestion verdict for one editor state.
type Result = completion.Result

// Suggestion is one completion candidate.
type Suggestion = completion.Suggestion

// ErrSuperseded reports that a concurrent Evaluate on the same engine
// published a newer result first, so this one was discarded.
var ErrSuperseded = errors.New("evaluation superseded by a newer query")

// Engine evaluates queries and computes suggestions for one document.
// Successful evaluations feed the suggestion side: completion after a pipe
// navigates the last result.
type Engine struct {
	doc      loader.Document
	cache    *document.Cache
	backend  executor.Executor
	pipeline *executor.Pipeline
	engine   *completion.Engine
}

// Option configures the Engine.
type Option func(*config)

type config struct {
	backend        executor.Executor
	jqPath         string
	internal       bool
	timeout        time.Duration
	maxSuggestions int
	scanAhead      int
	noColor        bool
	logger         logr.Logger
}

// WithExecutor injects a custom evaluation backend, skipping jq resolution.
func WithExecutor(e Executor) Option {
	return func(c *config) { c.backend = e }
}

// WithJQPath sets the jq binary to run; empty resolves "jq" from $PATH.
func WithJQPath(path string) Option {
	return func(c *config) { c.jqPath = path }
}

// WithInternalEngine forces the embedded engine even when a jq binary
// exists, which keeps evaluation free of subprocesses.
func WithInternalEngine() Option {
	return func(c *config) { c.internal = true }
}

// WithTimeout bounds a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithMaxSuggestions caps the suggestion list.
func WithMaxSuggestions(n int) Option {
	return func(c *config) { c.maxSuggestions = n }
}

// WithScanAhead widens array navigation to the first n elements when
// collecting field suggestions.
func WithScanAhead(n int) Option {
	return func(c *config) { c.scanAhead = n }
}

// WithoutColor skips styling the rendered output.
func WithoutColor() Option {
	return func(c *config) { c.noColor = true }
}

// WithLogger sets the logger for evaluation events.
func WithLogger(log logr.Logger) Option {
	return func(c *config) { c.logger = log }
}

// New loads a value and builds an engine over it. Strings and byte slices
// go through format detection (JSON, NDJSON, YAML, TOML, JWT); other values
// are normalized via their JSON form.
func New(value any, opts ...Option) (*Engine, error) {
	doc, err := loader.LoadObject(value)
	if err != nil {
		return nil, err
	}
	return NewFromDocument(doc, opts...), nil
}

// NewFromDocument builds an engine over an already loaded document.
func NewFromDocument(doc loader.Document, opts ...Option) *Engine {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	log := c.logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	backend := c.backend
	if backend == nil {
		backend = executor.Choose(c.jqPath, c.internal, log)
	}
	cache := document.NewCache(doc.Root, doc.Text)

	return &Engine{
		doc:     doc,
		cache:   cache,
		backend: backend,
		pipeline: executor.NewPipeline(backend, cache, executor.Options{
			Timeout: c.timeout,
			NoColor: c.noColor,
			Logger:  log,
		}),
		engine: completion.NewEngine(cache, completion.Options{
			MaxSuggestions: c.maxSuggestions,
			ScanAhead:      c.scanAhead,
		}),
	}
}

// Evaluate runs one query to completion and returns its snapshot. A query
// the backend rejects returns a *Diagnostic error; infrastructure failures
// return the underlying error. The context bounds the evaluation together
// with the configured timeout.
func (e *Engine) Evaluate(ctx context.Context, query string) (*Snapshot, error) {
	out := e.pipeline.Execute(ctx, e.pipeline.NextSeq(), query)
	switch {
	case out.Diag != nil:
		return nil, out.Diag
	case out.Err != nil:
		return nil, out.Err
	case out.Stale:
		return nil, ErrSuperseded
	}
	return out.Snapshot, nil
}

// Suggest computes suggestions for query text with the cursor at the given
// byte offset. It never blocks and never evaluates.
func (e *Engine) Suggest(text string, cursor int) Result {
	return e.engine.Suggest(text, cursor)
}

// Document returns the loaded document.
func (e *Engine) Document() loader.Document { return e.doc }

// Last returns the most recent successful snapshot, or nil before any
// Evaluate has succeeded.
func (e *Engine) Last() *Snapshot { return e.cache.Last() }

// Backend returns the active evaluation backend name, "jq" or "gojq".
func (e *Engine) Backend() string { return e.backend.Name() }
