package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
)

func tempHistory(t *testing.T, content string) *History {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return New(path, logr.Discard())
}

func TestNewMissingFile(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "absent"), logr.Discard())
	if h.Len() != 0 {
		t.Fatalf("expected empty history, got %d entries", h.Len())
	}
}

func TestLoadCollapsesConsecutiveDuplicates(t *testing.T) {
	h := tempHistory(t, ".a\n.a\n.b\n\n .b \n.a\n")
	want := []string{".a", ".b", ".a"}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAddPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")
	h := New(path, logr.Discard())
	h.Add(".items")
	h.Add(".items") // consecutive duplicate, dropped
	h.Add(".items | length")

	reloaded := New(path, logr.Discard())
	want := []string{".items", ".items | length"}
	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAddIgnoresBlank(t *testing.T) {
	h := tempHistory(t, "")
	h.Add("")
	h.Add("   ")
	if h.Len() != 0 {
		t.Fatalf("expected no entries, got %d", h.Len())
	}
}

func TestEmptyPathKeepsRecallWorking(t *testing.T) {
	h := New("", logr.Discard())
	h.Add(".a")
	if h.Len() != 1 {
		t.Fatalf("expected one entry, got %d", h.Len())
	}
	if got, ok := h.Prev(); !ok || got != ".a" {
		t.Fatalf("expected .a, got %q ok=%v", got, ok)
	}
}

func TestPrevNextWalk(t *testing.T) {
	h := tempHistory(t, ".a\n.b\n.c\n")

	if got, ok := h.Prev(); !ok || got != ".c" {
		t.Fatalf("expected .c, got %q ok=%v", got, ok)
	}
	if got, ok := h.Prev(); !ok || got != ".b" {
		t.Fatalf("expected .b, got %q ok=%v", got, ok)
	}
	if got, ok := h.Prev(); !ok || got != ".a" {
		t.Fatalf("expected .a, got %q ok=%v", got, ok)
	}
	// at the oldest entry Prev reports false and stays put
	if _, ok := h.Prev(); ok {
		t.Fatal("expected false at the oldest entry")
	}

	if got, ok := h.Next(); !ok || got != ".b" {
		t.Fatalf("expected .b, got %q ok=%v", got, ok)
	}
	if got, ok := h.Next(); !ok || got != ".c" {
		t.Fatalf("expected .c, got %q ok=%v", got, ok)
	}
	// stepping past the newest entry means back to the live line
	if _, ok := h.Next(); ok {
		t.Fatal("expected false at the live position")
	}
	if _, ok := h.Next(); ok {
		t.Fatal("expected false to repeat at the live position")
	}
}

func TestAddResetsCursor(t *testing.T) {
	h := tempHistory(t, ".a\n.b\n")
	h.Prev()
	h.Prev()
	h.Add(".c")
	if got, ok := h.Prev(); !ok || got != ".c" {
		t.Fatalf("expected .c after reset, got %q ok=%v", got, ok)
	}
}

func TestReset(t *testing.T) {
	h := tempHistory(t, ".a\n.b\n")
	h.Prev()
	h.Reset()
	if got, ok := h.Prev(); !ok || got != ".b" {
		t.Fatalf("expected .b after reset, got %q ok=%v", got, ok)
	}
}

func TestSearchRanking(t *testing.T) {
	h := tempHistory(t, ".name\n.items\n.items[0]\n")
	got := h.Search(".item")
	want := []string{".items", ".items[0]", ".name"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchDropsUnrelated(t *testing.T) {
	h := tempHistory(t, ".items\n")
	if got := h.Search("zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	h := tempHistory(t, ".Name\n")
	if got := h.Search("name"); len(got) != 1 {
		t.Fatalf("expected a match, got %v", got)
	}
}

func TestSearchEmptyTermNewestFirst(t *testing.T) {
	h := tempHistory(t, ".a\n.b\n.c\n")
	want := []string{".c", ".b", ".a"}
	if diff := cmp.Diff(want, h.Search("")); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchTieBreaksNewestFirst(t *testing.T) {
	h := tempHistory(t, ".x\n.y\n.x\n")
	got := h.Search(".x")
	if len(got) < 1 || got[0] != ".x" {
		t.Fatalf("expected .x first, got %v", got)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	h := New("", logr.Discard())
	h.limit = 3
	for _, q := range []string{".a", ".b", ".c", ".d", ".e"} {
		h.Add(q)
	}
	want := []string{".c", ".d", ".e"}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLCS(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", ".a", 0},
		{".a", ".a", 2},
		{".item", ".items", 5},
		{"abc", "xyz", 0},
		{"map", ".items | map(.id)", 3},
	}
	for _, tc := range cases {
		if got := lcs(tc.a, tc.b); got != tc.want {
			t.Errorf("lcs(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
