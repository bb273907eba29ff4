package executor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestDiagnosticFromStderrCompileError(t *testing.T) {
	stderr := "jq: error: syntax error, unexpected ']' (Unix shell quoting issues?) at <top-level>, line 1:\n" +
		".foo]\n" +
		"jq: 1 compile error\n"
	d := diagnosticFromStderr(stderr, 3)
	if d.Line != 1 {
		t.Fatalf("expected line 1, got %d", d.Line)
	}
	if !strings.Contains(d.Message, "syntax error") {
		t.Fatalf("expected syntax error message, got %q", d.Message)
	}
	if strings.Contains(d.Message, ", line 1:") {
		t.Fatalf("expected position marker stripped from message, got %q", d.Message)
	}
}

func TestDiagnosticFromStderrRuntimeError(t *testing.T) {
	stderr := "jq: error (at <stdin>:1): Cannot index number with \"foo\"\n"
	d := diagnosticFromStderr(stderr, 5)
	if d.Line != 1 {
		t.Fatalf("expected line 1, got %d", d.Line)
	}
	if d.Message != `Cannot index number with "foo"` {
		t.Fatalf("unexpected message %q", d.Message)
	}
}

func TestDiagnosticFromStderrUnrecognized(t *testing.T) {
	d := diagnosticFromStderr("something went sideways\n", 5)
	if d.Message != "something went sideways" {
		t.Fatalf("expected raw stderr as message, got %q", d.Message)
	}
	if d.Line != 0 {
		t.Fatalf("expected no line, got %d", d.Line)
	}
}

func TestDiagnosticFromStderrEmpty(t *testing.T) {
	d := diagnosticFromStderr("", 5)
	if !strings.Contains(d.Message, "status 5") {
		t.Fatalf("expected exit status fallback, got %q", d.Message)
	}
}

func TestDiagnosticError(t *testing.T) {
	with := &Diagnostic{Message: "boom", Line: 2}
	if with.Error() != "line 2: boom" {
		t.Fatalf("unexpected error text %q", with.Error())
	}
	without := &Diagnostic{Message: "boom"}
	if without.Error() != "boom" {
		t.Fatalf("unexpected error text %q", without.Error())
	}
}

func TestJQEvaluate(t *testing.T) {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		t.Skip("jq binary not installed")
	}
	j := &JQ{}
	out, err := j.Evaluate(context.Background(), ".a", `{"a": [1, 2]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, multi, err := ParseOutput(out, 2)
	if err != nil || multi || len(values) != 1 {
		t.Fatalf("expected a single array value, got values=%v multi=%v err=%v", values, multi, err)
	}
}

func TestJQEvaluateBadQuery(t *testing.T) {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		t.Skip("jq binary not installed")
	}
	j := &JQ{}
	_, err := j.Evaluate(context.Background(), ".foo]", `{}`)
	var diag *Diagnostic
	if !errors.As(err, &diag) {
		t.Fatalf("expected *Diagnostic, got %v", err)
	}
}

func TestChoosePrefersEmbeddedWhenForced(t *testing.T) {
	e := Choose("", true, testLogger())
	if e.Name() != "gojq" {
		t.Fatalf("expected embedded backend, got %s", e.Name())
	}
}

func TestChooseFallsBackWhenMissing(t *testing.T) {
	e := Choose("definitely-not-a-real-binary-name", false, testLogger())
	if e.Name() != "gojq" {
		t.Fatalf("expected fallback to embedded backend, got %s", e.Name())
	}
}
