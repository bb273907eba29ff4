// Package executor runs queries against the document through an opaque
// contract: query text and document text in, output text out. Backends are
// the jq binary and an embedded engine; nothing else in the program
// evaluates queries.
package executor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/go-logr/logr"
)

// DefaultBinary is the jq executable resolved from $PATH when no explicit
// path is configured.
const DefaultBinary = "jq"

// Executor evaluates a query against a serialized document and returns the
// raw output text. Implementations honor ctx cancellation and deadlines.
// Evaluation failures surface as *Diagnostic; anything else is an
// infrastructure error.
type Executor interface {
	Evaluate(ctx context.Context, query, document string) (string, error)
	Name() string
}

// Choose picks the backend: the jq binary at path when resolvable, otherwise
// the embedded engine. forceEmbedded skips the lookup entirely.
func Choose(path string, forceEmbedded bool, log logr.Logger) Executor {
	if forceEmbedded {
		return &Gojq{}
	}
	bin := path
	if bin == "" {
		bin = DefaultBinary
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		log.Info("jq binary not found, using embedded engine", "path", bin)
		return &Gojq{}
	}
	return &JQ{Path: resolved}
}

// Diagnostic is a structured evaluation failure: the backend's message plus
// a 1-based source position when one was reported, zero otherwise.
type Diagnostic struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}
