package executor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseOutput decodes evaluator output exactly once per request. The fast
// path unmarshals the whole text as a single value; when that fails because
// the query produced a stream, a decoder collects up to maxStream leading
// values and reports whether more follow without consuming the rest.
//
// Empty output (the `empty` filter, or a select that matched nothing) yields
// no values and no error.
func ParseOutput(output string, maxStream int) (values []interface{}, multi bool, err error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, false, nil
	}

	var single interface{}
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return []interface{}{single}, false, nil
	}

	if maxStream < 1 {
		maxStream = 1
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	for len(values) < maxStream && dec.More() {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			if len(values) == 0 {
				return nil, false, fmt.Errorf("decoding evaluator output: %w", err)
			}
			return values, len(values) > 1, nil
		}
		values = append(values, v)
	}
	return values, len(values) > 1 || dec.More(), nil
}
