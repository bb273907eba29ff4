package navigator

import (
	"reflect"
	"sort"
)

// CollectFieldNames walks the entire tree under root and returns every
// object key found anywhere, deduplicated and sorted. This is the fallback
// suggestion source when precise navigation is not possible.
func CollectFieldNames(root interface{}) []string {
	seen := map[string]bool{}
	var walk func(v interface{})
	walk = func(v interface{}) {
		if arr, ok := v.([]interface{}); ok {
			for _, el := range arr {
				walk(el)
			}
			return
		}
		m, ok := StringKeyMap(v)
		if !ok {
			return
		}
		for k, el := range m {
			seen[k] = true
			walk(el)
		}
	}
	walk(root)
	return sortedSet(seen)
}

// FieldUnion returns the object keys visible from the candidate nodes. An
// object contributes its own keys; an array contributes the keys of its
// first element, or of its first scan elements when scan > 1. Deduplicated
// and sorted.
func FieldUnion(nodes []interface{}, scan int) []string {
	if scan < 1 {
		scan = 1
	}
	seen := map[string]bool{}
	addKeys := func(v interface{}) {
		if m, ok := StringKeyMap(v); ok {
			for k := range m {
				seen[k] = true
			}
		}
	}
	for _, n := range nodes {
		if arr, ok := n.([]interface{}); ok {
			for i := 0; i < len(arr) && i < scan; i++ {
				addKeys(arr[i])
			}
			continue
		}
		addKeys(n)
	}
	return sortedSet(seen)
}

// StringKeyMap converts a value to a string-keyed map when possible. JSON
// decoding always yields map[string]interface{}, but values that crossed a
// YAML or TOML decoder can surface other map types, so reflection backs up
// the direct assertion. Callers treat the returned map as read-only.
func StringKeyMap(v interface{}) (map[string]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]interface{}, rv.Len())
	for _, key := range rv.MapKeys() {
		out[key.String()] = rv.MapIndex(key).Interface()
	}
	return out, true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
