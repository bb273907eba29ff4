package document

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewCacheFieldNames(t *testing.T) {
	root := map[string]interface{}{
		"user": map[string]interface{}{"name": "a"},
		"items": []interface{}{
			map[string]interface{}{"id": float64(1)},
		},
	}
	c := NewCache(root, `{"user":{"name":"a"},"items":[{"id":1}]}`)
	want := []string{"id", "items", "name", "user"}
	if diff := cmp.Diff(want, c.FieldNames()); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishFirstSnapshot(t *testing.T) {
	c := NewCache(map[string]interface{}{}, "{}")
	if c.Last() != nil {
		t.Fatalf("expected empty cache before first publish")
	}
	if !c.Publish(&Snapshot{Seq: 1, Query: "."}) {
		t.Fatalf("expected first publish to succeed")
	}
	if got := c.Last(); got == nil || got.Seq != 1 {
		t.Fatalf("expected snapshot 1 visible, got %+v", got)
	}
}

func TestPublishDiscardsStaleArrival(t *testing.T) {
	// an older request finishing after a newer one must not win
	c := NewCache(map[string]interface{}{}, "{}")
	newer := &Snapshot{Seq: 2, Query: ".b", Output: "2"}
	older := &Snapshot{Seq: 1, Query: ".a", Output: "1"}

	if !c.Publish(newer) {
		t.Fatalf("expected publish of seq 2 to succeed")
	}
	if c.Publish(older) {
		t.Fatalf("expected stale seq 1 to be discarded")
	}
	got := c.Last()
	if got.Seq != 2 || got.Output != "2" {
		t.Fatalf("cache regressed to stale snapshot: %+v", got)
	}
}

func TestPublishEqualSeqRejected(t *testing.T) {
	c := NewCache(map[string]interface{}{}, "{}")
	c.Publish(&Snapshot{Seq: 3})
	if c.Publish(&Snapshot{Seq: 3, Output: "dupe"}) {
		t.Fatalf("expected duplicate seq to be rejected")
	}
}

func TestPublishConcurrentConvergesToNewest(t *testing.T) {
	c := NewCache(map[string]interface{}{}, "{}")
	var wg sync.WaitGroup
	for seq := uint64(1); seq <= 64; seq++ {
		wg.Add(1)
		go func(s uint64) {
			defer wg.Done()
			c.Publish(&Snapshot{Seq: s})
		}(seq)
	}
	wg.Wait()
	if got := c.Last().Seq; got != 64 {
		t.Fatalf("expected newest snapshot to win, got seq %d", got)
	}
}
