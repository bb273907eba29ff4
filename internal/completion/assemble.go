package completion

import (
	"sort"
	"strings"

	"github.com/oakwood-commons/jqx/internal/navigator"
	"github.com/oakwood-commons/jqx/internal/query"
)

// Score bands order kinds in the popup; alphabetical order applies within a
// band.
const (
	scoreEntry    = 200
	scoreField    = 100
	scoreVariable = 80
	scoreFunction = 50
	scoreOperator = 40
	scorePattern  = 30
)

// assemble turns a classified situation into the final capped list. Every
// candidate set is filtered by the partial prefix, exact and case-sensitive.
func (e *Engine) assemble(sit situation) []Suggestion {
	partial := sit.path.Partial

	var out []Suggestion
	switch {
	case sit.entry == EntryDirect:
		out = entrySuggestions(partial)
	case sit.fieldCtx:
		out = e.fieldSuggestions(sit, partial)
	case partial == "":
		return nil
	case strings.HasPrefix(partial, "$"):
		out = variableSuggestions(sit.text, partial)
	default:
		out = e.staticSuggestions(partial)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > e.opts.MaxSuggestions {
		out = out[:e.opts.MaxSuggestions]
	}
	for i := range out {
		if out[i].Display == "" {
			out[i].Display = out[i].Text
		}
	}
	return out
}

// entrySuggestions are the two fields every entry object has. Nothing else
// is offered: the shape is exact by construction.
func entrySuggestions(partial string) []Suggestion {
	candidates := []Suggestion{
		{Text: "key", Kind: SuggestionField, Type: "string", Description: "Entry key", Score: scoreEntry},
		{Text: "value", Kind: SuggestionField, Type: "opaque", Description: "Entry value", Score: scoreEntry},
	}
	out := candidates[:0]
	for _, s := range candidates {
		if partial == "" || strings.HasPrefix(s.Text, partial) {
			out = append(out, s)
		}
	}
	return out
}

// fieldSuggestions derives field names from the navigated nodes, or from the
// document-wide fallback set when navigation came up empty.
func (e *Engine) fieldSuggestions(sit situation, partial string) []Suggestion {
	var names []string
	var types map[string]string
	if len(sit.nodes) > 0 {
		names = navigator.FieldUnion(sit.nodes, e.opts.ScanAhead)
		types = fieldTypes(sit.nodes, names, e.opts.ScanAhead)
	} else {
		names = e.cache.FieldNames()
	}
	out := make([]Suggestion, 0, len(names))
	for _, name := range names {
		if partial != "" && !strings.HasPrefix(name, partial) {
			continue
		}
		out = append(out, Suggestion{
			Text:  name,
			Kind:  SuggestionField,
			Type:  types[name],
			Score: scoreField,
		})
	}
	return out
}

// staticSuggestions filters the builtin, operator and pattern tables by the
// typed prefix.
func (e *Engine) staticSuggestions(partial string) []Suggestion {
	var out []Suggestion
	for _, fn := range e.registry.GetAll() {
		if !strings.HasPrefix(fn.Name, partial) {
			continue
		}
		out = append(out, Suggestion{
			Text:        fn.Name,
			Display:     displayName(fn),
			Kind:        SuggestionFunction,
			Type:        fn.ReturnType,
			Description: fn.Description,
			Score:       scoreFunction,
		})
	}
	for _, op := range operatorTable {
		if strings.HasPrefix(op.Text, partial) {
			out = append(out, op)
		}
	}
	for _, pt := range patternTable {
		if strings.HasPrefix(pt.Text, partial) {
			out = append(out, pt)
		}
	}
	return out
}

// variableSuggestions merges names bound with "as" patterns anywhere in the
// query with the always-defined builtins.
func variableSuggestions(text, partial string) []Suggestion {
	var out []Suggestion
	seen := make(map[string]bool)
	for _, name := range query.ScanVariables(text) {
		if seen[name] || !strings.HasPrefix(name, partial) {
			continue
		}
		seen[name] = true
		out = append(out, Suggestion{
			Text:        name,
			Kind:        SuggestionVariable,
			Description: "Bound in this query",
			Score:       scoreVariable,
		})
	}
	for _, s := range builtinVariables {
		if !seen[s.Text] && strings.HasPrefix(s.Text, partial) {
			out = append(out, s)
		}
	}
	return out
}

// displayName decorates callables with their argument list.
func displayName(fn FunctionMetadata) string {
	if strings.Contains(fn.Signature, "(") {
		return fn.Signature
	}
	return fn.Name
}

// fieldTypes resolves a display type for each field name from the first
// candidate node carrying it. Array candidates are probed through their
// first scan elements, mirroring how the union was built.
func fieldTypes(nodes []interface{}, names []string, scan int) map[string]string {
	types := make(map[string]string, len(names))
	lookup := func(node interface{}) {
		m, ok := navigator.StringKeyMap(node)
		if !ok {
			return
		}
		for _, name := range names {
			if _, done := types[name]; done {
				continue
			}
			if v, present := m[name]; present {
				types[name] = typeLabel(v)
			}
		}
	}
	for _, node := range nodes {
		if arr, ok := node.([]interface{}); ok {
			n := scan
			if n > len(arr) {
				n = len(arr)
			}
			for i := 0; i < n; i++ {
				lookup(arr[i])
			}
			continue
		}
		lookup(node)
	}
	return types
}

// typeLabel names a value's shape for the popup annotation.
func typeLabel(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return ""
	}
}
