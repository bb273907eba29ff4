package core

import (
	"context"
	"errors"
	"testing"
)

type fakeExecutor struct {
	query    string
	document string
	output   string
	err      error
}

func (f *fakeExecutor) Evaluate(ctx context.Context, query, document string) (string, error) {
	f.query = query
	f.document = document
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func (f *fakeExecutor) Name() string { return "fake" }

func TestEngineUsesInjectedExecutor(t *testing.T) {
	fake := &fakeExecutor{output: `{"ok":true}`}
	engine, err := New(map[string]interface{}{"a": 1}, WithExecutor(fake), WithoutColor())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	snap, err := engine.Evaluate(context.Background(), ".a")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if fake.query != ".a" {
		t.Errorf("executor saw query %q, want %q", fake.query, ".a")
	}
	if fake.document != `{"a":1}` {
		t.Errorf("executor saw document %q, want %q", fake.document, `{"a":1}`)
	}
	if snap.Output != `{"ok":true}` {
		t.Errorf("Output = %q, want %q", snap.Output, `{"ok":true}`)
	}
	if engine.Backend() != "fake" {
		t.Errorf("Backend = %q, want %q", engine.Backend(), "fake")
	}
}

func TestInjectedExecutorDiagnosticPropagates(t *testing.T) {
	fake := &fakeExecutor{err: &Diagnostic{Message: "broken", Line: 1, Column: 2}}
	engine, err := New(map[string]interface{}{"a": 1}, WithExecutor(fake))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	_, err = engine.Evaluate(context.Background(), ".a")
	var diag *Diagnostic
	if !errors.As(err, &diag) {
		t.Fatalf("error %v is not a *Diagnostic", err)
	}
	if diag.Message != "broken" || diag.Line != 1 || diag.Column != 2 {
		t.Errorf("diag = %+v, want message %q at 1:2", diag, "broken")
	}
}

func TestInjectedExecutorInfrastructureErrorPropagates(t *testing.T) {
	boom := errors.New("backend exploded")
	fake := &fakeExecutor{err: boom}
	engine, err := New(map[string]interface{}{"a": 1}, WithExecutor(fake))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	_, err = engine.Evaluate(context.Background(), ".a")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the injected one", err)
	}
}
