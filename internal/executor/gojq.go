package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/itchyny/gojq"
)

// Gojq evaluates queries with the embedded gojq engine. It is the fallback
// when no jq binary is installed and the backend behind --internal. Output
// mirrors the jq CLI so the rest of the pipeline cannot tell them apart:
// each result value pretty-printed with two-space indentation, one per line
// group, with a trailing newline.
type Gojq struct{}

// Name identifies the backend in logs and the status bar.
func (g *Gojq) Name() string { return "gojq" }

// Evaluate parses, compiles and runs the query in-process. Parse and runtime
// failures become *Diagnostic; document decoding problems are infrastructure
// errors since the document was validated at load time.
func (g *Gojq) Evaluate(ctx context.Context, query, document string) (string, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		return "", parseDiagnostic(err)
	}
	code, err := gojq.Compile(q, gojq.WithEnvironLoader(os.Environ))
	if err != nil {
		return "", &Diagnostic{Message: err.Error()}
	}

	var input interface{}
	if document != "" {
		if err := json.Unmarshal([]byte(document), &input); err != nil {
			return "", fmt.Errorf("decoding document: %w", err)
		}
	}

	var b strings.Builder
	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if rerr, isErr := v.(error); isErr {
			var herr *gojq.HaltError
			if errors.As(rerr, &herr) && herr.Value() == nil {
				break
			}
			return "", &Diagnostic{Message: rerr.Error()}
		}
		text, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", &Diagnostic{Message: err.Error()}
		}
		b.Write(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// parseDiagnostic maps gojq parse errors onto the editor's single-line
// queries: the byte offset becomes a column on line 1.
func parseDiagnostic(err error) *Diagnostic {
	var pe *gojq.ParseError
	if errors.As(err, &pe) {
		col := pe.Offset - len(pe.Token) + 1
		if col < 1 {
			col = 1
		}
		return &Diagnostic{Message: err.Error(), Line: 1, Column: col}
	}
	return &Diagnostic{Message: err.Error()}
}
