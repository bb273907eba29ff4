package loader

import (
	"encoding/json"
	"fmt"
	"reflect"
)

const maxNormalizeDepth = 100

// normalizeValue converts typed containers and struct values into plain
// map[string]interface{} / []interface{} trees that marshal cleanly. YAML
// mappings with non-string keys get their keys stringified.
func normalizeValue(node interface{}, depth int) (interface{}, error) {
	if node == nil {
		return nil, nil
	}
	if depth > maxNormalizeDepth {
		return nil, fmt.Errorf("input nesting exceeds %d levels", maxNormalizeDepth)
	}

	switch v := node.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			nv, err := normalizeValue(val, depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = nv
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			nv, err := normalizeValue(val, depth+1)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil
	case bool, string,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeValue(rv.Elem().Interface(), depth+1)

	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var keyStr string
			if k.Kind() == reflect.String {
				keyStr = k.String()
			} else {
				keyStr = fmt.Sprintf("%v", k.Interface())
			}
			nv, err := normalizeValue(iter.Value().Interface(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", keyStr, err)
			}
			out[keyStr] = nv
		}
		return out, nil

	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			nv, err := normalizeValue(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil

	default:
		// Structs and remaining types go through their JSON form, which
		// respects struct tags.
		data, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("cannot marshal %T: %w", node, err)
		}
		var result interface{}
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

// isNilValue reports whether value is nil, including a typed nil inside the
// interface.
func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
