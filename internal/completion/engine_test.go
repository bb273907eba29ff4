package completion

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oakwood-commons/jqx/internal/document"
)

func engineFor(t *testing.T, doc string, opts Options) (*Engine, *document.Cache) {
	t.Helper()
	var root interface{}
	if err := json.Unmarshal([]byte(doc), &root); err != nil {
		t.Fatalf("bad fixture document: %v", err)
	}
	cache := document.NewCache(root, doc)
	return NewEngine(cache, opts), cache
}

func texts(suggestions []Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Text)
	}
	return out
}

func suggestAtEnd(e *Engine, text string) Result {
	return e.Suggest(text, len(text))
}

func TestSuggestNestedFields(t *testing.T) {
	e, _ := engineFor(t, `{"user":{"profile":{"name":"John","age":30}}}`, Options{})
	res := suggestAtEnd(e, ".user.profile.")
	want := []string{"age", "name"}
	if diff := cmp.Diff(want, texts(res.Suggestions)); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if res.Certainty != Deterministic {
		t.Fatal("expected deterministic navigation")
	}
}

func TestSuggestElementContext(t *testing.T) {
	doc := `{"items":[{"id":1},{"id":2,"extra":true}]}`

	e, _ := engineFor(t, doc, Options{})
	res := suggestAtEnd(e, "map(.")
	if diff := cmp.Diff([]string{"id"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("first-element suggestions mismatch (-want +got):\n%s", diff)
	}

	e2, _ := engineFor(t, doc, Options{ScanAhead: 2})
	res2 := suggestAtEnd(e2, "map(.")
	if diff := cmp.Diff([]string{"extra", "id"}, texts(res2.Suggestions)); diff != "" {
		t.Fatalf("scan-ahead suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestEntryDirect(t *testing.T) {
	e, _ := engineFor(t, `{"host":"a","port":1}`, Options{})
	res := suggestAtEnd(e, "to_entries | .[].")
	if diff := cmp.Diff([]string{"key", "value"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("expected exactly the entry fields (-want +got):\n%s", diff)
	}
	if res.Entry != EntryDirect {
		t.Fatalf("expected direct entry context, got %v", res.Entry)
	}
	if res.Suggestions[1].Type != "opaque" {
		t.Fatalf("expected value annotated opaque, got %q", res.Suggestions[1].Type)
	}
}

func TestSuggestEntryDirectInsideMap(t *testing.T) {
	e, _ := engineFor(t, `{"host":"a"}`, Options{})
	res := suggestAtEnd(e, "to_entries | map(.")
	if diff := cmp.Diff([]string{"key", "value"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("expected entry fields inside map (-want +got):\n%s", diff)
	}
}

func TestSuggestEntryOpaqueValue(t *testing.T) {
	e, _ := engineFor(t, `{"a":{"name":"x"}}`, Options{})
	res := suggestAtEnd(e, "to_entries | map(.value | map(select(.")
	if res.Certainty != NonDeterministic {
		t.Fatal("expected non-deterministic certainty past an opaque value")
	}
	want := []string{"a", "name"}
	if diff := cmp.Diff(want, texts(res.Suggestions)); diff != "" {
		t.Fatalf("expected the document-wide fallback (-want +got):\n%s", diff)
	}
	for _, s := range res.Suggestions {
		if s.Text == "key" || s.Text == "value" {
			t.Fatalf("entry pseudo-fields must not leak into the fallback: %v", texts(res.Suggestions))
		}
	}
}

func TestSuggestPartialFiltersFields(t *testing.T) {
	e, _ := engineFor(t, `{"user":{"profile":{},"primary":true,"name":"x"}}`, Options{})
	res := suggestAtEnd(e, ".user.pr")
	want := []string{"primary", "profile"}
	if diff := cmp.Diff(want, texts(res.Suggestions)); diff != "" {
		t.Fatalf("prefix filter mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestFieldTypeAnnotations(t *testing.T) {
	e, _ := engineFor(t, `{"name":"x","count":3,"tags":[],"meta":{},"on":true,"gone":null}`, Options{})
	res := suggestAtEnd(e, ".")
	types := map[string]string{}
	for _, s := range res.Suggestions {
		types[s.Text] = s.Type
	}
	want := map[string]string{
		"name": "string", "count": "number", "tags": "array",
		"meta": "object", "on": "boolean", "gone": "null",
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("type annotations mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestFallbackOnNavigationMiss(t *testing.T) {
	e, cache := engineFor(t, `{"user":{"name":"x"}}`, Options{})
	res := suggestAtEnd(e, ".missing.")
	if res.Certainty != NonDeterministic {
		t.Fatal("expected non-deterministic certainty after a miss")
	}
	if diff := cmp.Diff(cache.FieldNames(), texts(res.Suggestions)); diff != "" {
		t.Fatalf("expected the fallback field set (-want +got):\n%s", diff)
	}
	if len(res.Suggestions) == 0 {
		t.Fatal("a miss must never produce an empty result without reason")
	}
}

func TestSuggestShapeEraserForcesFallback(t *testing.T) {
	e, cache := engineFor(t, `{"items":[{"id":1}]}`, Options{})
	res := suggestAtEnd(e, ".items | group_by(.id) | .[0].")
	if res.Certainty != NonDeterministic {
		t.Fatal("expected non-deterministic certainty past group_by")
	}
	if diff := cmp.Diff(cache.FieldNames(), texts(res.Suggestions)); diff != "" {
		t.Fatalf("expected the fallback field set (-want +got):\n%s", diff)
	}
}

func TestSuggestEraserAsOpenFrameDoesNotErase(t *testing.T) {
	e, _ := engineFor(t, `{"items":[{"id":1}]}`, Options{})
	res := suggestAtEnd(e, "group_by(.")
	want := []string{"id"}
	if diff := cmp.Diff(want, texts(res.Suggestions)); diff != "" {
		t.Fatalf("open group_by should still navigate its element (-want +got):\n%s", diff)
	}
	if res.Certainty != Deterministic {
		t.Fatal("expected deterministic certainty inside the open call")
	}
}

func TestSuggestPipeNavigatesLastResult(t *testing.T) {
	e, cache := engineFor(t, `{"items":[1]}`, Options{})
	cache.Publish(&document.Snapshot{
		Seq:    1,
		Result: map[string]interface{}{"avg": float64(2)},
		Stream: []interface{}{map[string]interface{}{"avg": float64(2)}},
		Type:   document.TypeObject,
	})
	res := suggestAtEnd(e, ".items | .")
	if !res.FromResult {
		t.Fatal("expected navigation against the last result")
	}
	if diff := cmp.Diff([]string{"avg"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestDestructuredStreamUnion(t *testing.T) {
	e, cache := engineFor(t, `{"items":[1]}`, Options{ScanAhead: 2})
	cache.Publish(&document.Snapshot{
		Seq:    1,
		Result: map[string]interface{}{"x": float64(1)},
		Stream: []interface{}{
			map[string]interface{}{"x": float64(1)},
			map[string]interface{}{"y": float64(2)},
		},
		Type: document.TypeDestructured,
	})
	res := suggestAtEnd(e, ".items[] | .")
	if diff := cmp.Diff([]string{"x", "y"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("stream union mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestWithoutSnapshotPipeFallsBackToOriginal(t *testing.T) {
	e, _ := engineFor(t, `{"user":{"name":"x"}}`, Options{})
	res := suggestAtEnd(e, ".user | .")
	if res.FromResult {
		t.Fatal("no snapshot exists, navigation must use the original")
	}
	if diff := cmp.Diff([]string{"user"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestFunctionContext(t *testing.T) {
	e, _ := engineFor(t, `{}`, Options{})
	res := suggestAtEnd(e, "ma")
	if len(res.Suggestions) == 0 {
		t.Fatal("expected function suggestions for 'ma'")
	}
	found := map[string]SuggestionKind{}
	for _, s := range res.Suggestions {
		found[s.Text] = s.Kind
		if len(s.Text) < 2 || s.Text[:2] != "ma" {
			t.Fatalf("suggestion %q does not extend the partial", s.Text)
		}
	}
	if k, ok := found["map"]; !ok || k != SuggestionFunction {
		t.Fatalf("expected map as a function suggestion, got %v", found)
	}
	if k, ok := found["match"]; !ok || k != SuggestionFunction {
		t.Fatalf("expected match as a function suggestion, got %v", found)
	}
}

func TestSuggestOperators(t *testing.T) {
	e, _ := engineFor(t, `{}`, Options{MaxSuggestions: 20})
	res := suggestAtEnd(e, ".a == 1 an")
	var op, fn bool
	for _, s := range res.Suggestions {
		if s.Text == "and" && s.Kind == SuggestionOperator {
			op = true
		}
		if s.Text == "any" && s.Kind == SuggestionFunction {
			fn = true
		}
	}
	if !op || !fn {
		t.Fatalf("expected both the operator and the function, got %v", texts(res.Suggestions))
	}
}

func TestSuggestPatternTemplates(t *testing.T) {
	e, _ := engineFor(t, `{}`, Options{})
	res := suggestAtEnd(e, ".items | if")
	var tpl bool
	for _, s := range res.Suggestions {
		if s.Kind == SuggestionPattern && s.Text == "if . then . else . end" {
			tpl = true
		}
	}
	if !tpl {
		t.Fatalf("expected the conditional template, got %v", texts(res.Suggestions))
	}
}

func TestSuggestVariables(t *testing.T) {
	e, _ := engineFor(t, `{"items":[1]}`, Options{})
	res := suggestAtEnd(e, ".items as $items | map($it")
	if diff := cmp.Diff([]string{"$items"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("variable suggestions mismatch (-want +got):\n%s", diff)
	}
	if res.Suggestions[0].Kind != SuggestionVariable {
		t.Fatal("expected a variable suggestion")
	}

	res = suggestAtEnd(e, ". | $E")
	if diff := cmp.Diff([]string{"$ENV"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("builtin variable mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestCapAndOrder(t *testing.T) {
	e, _ := engineFor(t, `{"a":1,"b":2,"c":3,"d":4,"e":5,"f":6,"g":7,"h":8}`, Options{MaxSuggestions: 5})
	res := suggestAtEnd(e, ".")
	if len(res.Suggestions) != 5 {
		t.Fatalf("expected cap at 5, got %d", len(res.Suggestions))
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("expected alphabetical order (-want +got):\n%s", diff)
	}
}

func TestSuggestNothingInsideString(t *testing.T) {
	e, _ := engineFor(t, `{"name":"x"}`, Options{})
	res := suggestAtEnd(e, `.name | test("a`)
	if len(res.Suggestions) != 0 {
		t.Fatalf("expected silence inside a string literal, got %v", texts(res.Suggestions))
	}
}

func TestSuggestNothingInObjectKeyPosition(t *testing.T) {
	e, _ := engineFor(t, `{"name":"x"}`, Options{})
	for _, q := range []string{"{na", "{a: .name, n"} {
		res := suggestAtEnd(e, q)
		if len(res.Suggestions) != 0 {
			t.Fatalf("%q: expected no suggestions in key position, got %v", q, texts(res.Suggestions))
		}
	}
}

func TestSuggestObjectValuePosition(t *testing.T) {
	e, _ := engineFor(t, `{"user":{"name":"x"}}`, Options{})
	res := suggestAtEnd(e, "{n: .user.")
	if diff := cmp.Diff([]string{"name"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("value position suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestNothingWithoutInput(t *testing.T) {
	e, _ := engineFor(t, `{"a":1}`, Options{})
	for _, q := range []string{"", "  ", ".a | select(.b) "} {
		res := e.Suggest(q, len(q))
		if len(res.Suggestions) != 0 {
			t.Fatalf("%q: expected nothing to suggest, got %v", q, texts(res.Suggestions))
		}
	}
}

func TestSuggestCursorMidText(t *testing.T) {
	e, _ := engineFor(t, `{"user":{"name":"x"},"items":[]}`, Options{})
	text := ".user. | length"
	res := e.Suggest(text, 6)
	if diff := cmp.Diff([]string{"name"}, texts(res.Suggestions)); diff != "" {
		t.Fatalf("mid-text cursor mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestDisplayDecoration(t *testing.T) {
	e, _ := engineFor(t, `{}`, Options{})
	res := suggestAtEnd(e, "len")
	if len(res.Suggestions) == 0 || res.Suggestions[0].Display != "length" {
		t.Fatalf("expected bare display for a zero-argument builtin, got %+v", res.Suggestions)
	}
	res = suggestAtEnd(e, "gro")
	if len(res.Suggestions) == 0 || res.Suggestions[0].Display != "group_by(f)" {
		t.Fatalf("expected signature display for a callable, got %+v", res.Suggestions)
	}
}
