package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// JQ evaluates queries by spawning the jq binary with the document on stdin.
// Every evaluation is a fresh process so a runaway query can be killed by
// the context deadline without poisoning later requests.
type JQ struct {
	// Path is the binary to run. Empty means DefaultBinary via $PATH.
	Path string
	// Args are extra flags placed before the query, e.g. "--tab".
	Args []string
}

// Name identifies the backend in logs and the status bar.
func (j *JQ) Name() string { return "jq" }

// Evaluate runs one jq process to completion. A non-zero exit becomes a
// *Diagnostic built from stderr; failures to spawn at all are returned
// verbatim so the caller can fall back or report a setup problem.
func (j *JQ) Evaluate(ctx context.Context, query, document string) (string, error) {
	bin := j.Path
	if bin == "" {
		bin = DefaultBinary
	}
	args := make([]string, 0, len(j.Args)+2)
	args = append(args, j.Args...)
	// "--" keeps queries that start with a dash from being read as flags.
	args = append(args, "--", query)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(document)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ProcessState != nil {
			return "", diagnosticFromStderr(stderr.String(), ee.ExitCode())
		}
		return "", fmt.Errorf("running %s: %w", bin, err)
	}
	return stdout.String(), nil
}

var (
	jqErrorLine  = regexp.MustCompile(`^jq: error(?: \(at [^)]*\))?: (.*)$`)
	jqLineNumber = regexp.MustCompile(`, line (\d+):?$|<stdin>:(\d+)`)
)

// diagnosticFromStderr distills jq's stderr into a single Diagnostic. jq
// prints one "jq: error ..." line per failure, sometimes with a trailing
// ", line N:" marker for compile errors; the first such line wins.
func diagnosticFromStderr(stderr string, exitCode int) *Diagnostic {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		m := jqErrorLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := &Diagnostic{Message: m[1]}
		if pos := jqLineNumber.FindStringSubmatch(line); pos != nil {
			num := pos[1]
			if num == "" {
				num = pos[2]
			}
			if n, err := strconv.Atoi(num); err == nil {
				d.Line = n
				d.Message = strings.TrimSuffix(d.Message, fmt.Sprintf(", line %d:", n))
			}
		}
		return d
	}
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = fmt.Sprintf("jq exited with status %d", exitCode)
	}
	return &Diagnostic{Message: msg}
}
