package navigator

import (
	"github.com/oakwood-commons/jqx/internal/query"
)

// Navigate resolves path segments against root, strictly: a field segment
// needs an object carrying the key, an index needs an array covering it, and
// an iterator descends into the first element of an array (or the first
// value of an object in key order, matching what .[] iterates). The boolean
// is false on the first mismatch; navigation never fabricates values.
func Navigate(root interface{}, segs []query.Segment) (interface{}, bool) {
	nodes := NavigateAll([]interface{}{root}, segs, 1)
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// NavigateAll folds segments over up to limit candidate nodes at once.
// Iterator segments expand each candidate into its leading elements, capped
// so the working set never exceeds limit. With limit 1 the fold degenerates
// to exactly the single-candidate behavior of Navigate; larger limits feed
// the scan-ahead union used for suggestion building. Cost is bounded by
// limit times the segment count, independent of array sizes.
func NavigateAll(roots []interface{}, segs []query.Segment, limit int) []interface{} {
	if limit < 1 {
		limit = 1
	}
	nodes := roots
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}
	for _, seg := range segs {
		next := make([]interface{}, 0, limit)
		for _, n := range nodes {
			if len(next) >= limit {
				break
			}
			switch seg.Kind {
			case query.KindField, query.KindOptionalField:
				m, ok := StringKeyMap(n)
				if !ok {
					continue
				}
				v, ok := m[seg.Name]
				if !ok {
					continue
				}
				next = append(next, v)
			case query.KindIterator:
				next = appendLeading(next, n, limit)
			case query.KindIndex:
				arr, ok := n.([]interface{})
				if !ok {
					continue
				}
				idx := seg.Index
				if idx < 0 {
					idx += len(arr)
				}
				if idx < 0 || idx >= len(arr) {
					continue
				}
				next = append(next, arr[idx])
			}
		}
		if len(next) == 0 {
			return nil
		}
		nodes = next
	}
	return nodes
}

// appendLeading expands one candidate under an iterator segment: array
// elements in order, or object values in sorted key order for determinism.
func appendLeading(dst []interface{}, n interface{}, limit int) []interface{} {
	if arr, ok := n.([]interface{}); ok {
		for _, el := range arr {
			if len(dst) >= limit {
				return dst
			}
			dst = append(dst, el)
		}
		return dst
	}
	m, ok := StringKeyMap(n)
	if !ok {
		return dst
	}
	for _, k := range sortedKeys(m) {
		if len(dst) >= limit {
			return dst
		}
		dst = append(dst, m[k])
	}
	return dst
}
