// Package document holds the per-session document state: the original tree
// parsed once at startup, and the most recent successful evaluation result
// published as an immutable snapshot. The suggestion engine reads both sides
// without locking; the execution pipeline is the only writer.
package document

import (
	"sync/atomic"

	"github.com/oakwood-commons/jqx/internal/navigator"
)

// Cache is the two-sided document state. The original side is write-once;
// the result side is an atomically swapped snapshot, so readers always
// observe a value together with the metrics computed for it.
type Cache struct {
	original     interface{}
	originalText string
	fieldNames   []string

	last atomic.Pointer[Snapshot]
}

// Snapshot is one successful evaluation, immutable once published.
type Snapshot struct {
	// Seq is the request sequence number the result belongs to.
	Seq uint64
	// Query produced this result.
	Query string
	// Result is the first parsed value of the output.
	Result interface{}
	// Stream holds the leading parsed values, Stream[0] == Result. Queries
	// that produced no output leave it empty.
	Stream []interface{}
	// Output is the evaluator's raw text.
	Output string
	// Rendered is the styled form of Output, built exactly once.
	Rendered string
	// Type classifies Result's shape.
	Type ResultType
	// Metrics measures Output's display geometry.
	Metrics Metrics
}

// NewCache wraps an already-decoded document. root is the parsed tree, text
// its canonical serialization handed to the evaluator. The fallback field
// set is collected here, once, and never recomputed.
func NewCache(root interface{}, text string) *Cache {
	return &Cache{
		original:     root,
		originalText: text,
		fieldNames:   navigator.CollectFieldNames(root),
	}
}

// Original returns the document tree. Callers must not mutate it.
func (c *Cache) Original() interface{} { return c.original }

// OriginalText returns the canonical serialization fed to the evaluator.
func (c *Cache) OriginalText() string { return c.originalText }

// FieldNames returns the sorted set of every object key in the original
// document, the fallback suggestion source.
func (c *Cache) FieldNames() []string { return c.fieldNames }

// Last returns the most recent successful snapshot, or nil before any query
// has succeeded.
func (c *Cache) Last() *Snapshot { return c.last.Load() }

// Publish installs snap unless a snapshot with an equal or higher sequence
// number is already visible. The compare-and-swap loop means results arriving
// out of order can only move the cache forward; a stale arrival is discarded
// and reported as false.
func (c *Cache) Publish(snap *Snapshot) bool {
	for {
		cur := c.last.Load()
		if cur != nil && cur.Seq >= snap.Seq {
			return false
		}
		if c.last.CompareAndSwap(cur, snap) {
			return true
		}
	}
}
