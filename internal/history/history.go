// Package history persists executed queries to a plain text file and
// recalls them, either by walking backwards readline-style or by ranked
// search.
package history

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

// DefaultLimit caps how many entries stay in memory and in search results.
const DefaultLimit = 1000

// History holds past queries, oldest first. The cursor marks the navigation
// position; len(entries) means "live", i.e. not currently recalling.
type History struct {
	path    string
	entries []string
	cursor  int
	limit   int
	log     logr.Logger
}

// New loads the history file at path if it exists. An empty path disables
// persistence but keeps in-memory recall working. Load failures are logged
// and start an empty history, never an error.
func New(path string, log logr.Logger) *History {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	h := &History{path: path, limit: DefaultLimit, log: log}

	if path == "" {
		return h
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.V(1).Info("history load failed", "path", path, "err", err.Error())
		}
		return h
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n := len(h.entries); n > 0 && h.entries[n-1] == line {
			continue
		}
		h.entries = append(h.entries, line)
	}
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries)
	return h
}

// Entries returns the stored queries, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of stored queries.
func (h *History) Len() int { return len(h.entries) }

// Add records an executed query and resets navigation to the live position.
// Blank queries and a repeat of the most recent entry are ignored. The entry
// is appended to the history file when persistence is enabled; a write
// failure is logged and the in-memory entry kept.
func (h *History) Add(query string) {
	query = strings.TrimSpace(strings.ReplaceAll(query, "\n", " "))
	defer func() { h.cursor = len(h.entries) }()

	if query == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == query {
		return
	}

	h.entries = append(h.entries, query)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}

	if h.path == "" {
		return
	}
	if err := h.append(query); err != nil {
		h.log.V(1).Info("history write failed", "path", h.path, "err", err.Error())
	}
}

func (h *History) append(query string) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(query + "\n")
	return err
}

// Prev steps one entry back and returns it. It reports false at the oldest
// entry, leaving the cursor in place.
func (h *History) Prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next steps one entry forward. It reports false when the cursor returns to
// the live position, where the caller restores whatever was being typed.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor], true
}

// Reset moves the cursor back to the live position.
func (h *History) Reset() { h.cursor = len(h.entries) }

// Search returns entries ranked by longest-common-subsequence similarity to
// term, best first, ties broken newest first. An empty term returns the
// entries newest first.
func (h *History) Search(term string) []string {
	if term == "" {
		out := make([]string, 0, len(h.entries))
		for i := len(h.entries) - 1; i >= 0; i-- {
			out = append(out, h.entries[i])
		}
		return out
	}

	type scored struct {
		entry string
		score float64
		age   int // lower is newer
	}
	lowered := strings.ToLower(term)
	var ranked []scored
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		s := similarity(lowered, strings.ToLower(e))
		if s == 0 {
			continue
		}
		ranked = append(ranked, scored{entry: e, score: s, age: len(h.entries) - 1 - i})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].age < ranked[b].age
	})

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.entry
	}
	return out
}

// similarity is the length of the longest common subsequence of a and b,
// normalized by the combined length. 1 means equal strings, 0 no overlap.
func similarity(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := lcs(a, b)
	return float64(2*n) / float64(len(a)+len(b))
}

// lcs computes the longest common subsequence length with a two-row table.
func lcs(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
