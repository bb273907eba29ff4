package completion

import (
	"sort"
	"strings"
)

// FunctionMetadata describes one builtin for suggestions and the functions
// listing.
type FunctionMetadata struct {
	Name        string // e.g. "group_by"
	Signature   string // e.g. "group_by(f)"
	Description string
	Category    string // grouping for the functions listing
	ReturnType  string // e.g. "array", "any"
}

// FunctionRegistry is the single source of truth for builtin metadata. It
// deduplicates by name and indexes by category.
type FunctionRegistry struct {
	functions  map[string]FunctionMetadata
	byCategory map[string][]string
	allNames   []string
}

// categoryOrder defines the display order for the functions listing.
var categoryOrder = []string{
	"path",
	"selection",
	"object",
	"array",
	"string",
	"regex",
	"math",
	"conversion",
	"datetime",
	"stream",
	"general",
}

func newRegistry(funcs []FunctionMetadata) *FunctionRegistry {
	r := &FunctionRegistry{
		functions:  make(map[string]FunctionMetadata, len(funcs)),
		byCategory: make(map[string][]string),
	}
	for _, fn := range funcs {
		existing, ok := r.functions[fn.Name]
		if ok && len(existing.Description) >= len(fn.Description) {
			continue
		}
		r.functions[fn.Name] = fn
	}
	for name, fn := range r.functions {
		cat := fn.Category
		if cat == "" {
			cat = "general"
		}
		r.byCategory[cat] = append(r.byCategory[cat], name)
		r.allNames = append(r.allNames, name)
	}
	for cat := range r.byCategory {
		sort.Strings(r.byCategory[cat])
	}
	sort.Strings(r.allNames)
	return r
}

// GetFunction returns metadata for a function by name, or nil if not found.
func (r *FunctionRegistry) GetFunction(name string) *FunctionMetadata {
	if fn, ok := r.functions[name]; ok {
		return &fn
	}
	return nil
}

// GetAll returns all functions sorted alphabetically by name.
func (r *FunctionRegistry) GetAll() []FunctionMetadata {
	result := make([]FunctionMetadata, 0, len(r.allNames))
	for _, name := range r.allNames {
		result = append(result, r.functions[name])
	}
	return result
}

// GetByCategory returns functions for one category, sorted alphabetically.
func (r *FunctionRegistry) GetByCategory(category string) []FunctionMetadata {
	names := r.byCategory[category]
	result := make([]FunctionMetadata, 0, len(names))
	for _, name := range names {
		result = append(result, r.functions[name])
	}
	return result
}

// GetCategories returns the non-empty categories in display order, followed
// by any category outside the known order.
func (r *FunctionRegistry) GetCategories() []string {
	result := make([]string, 0, len(r.byCategory))
	seen := make(map[string]bool, len(categoryOrder))
	for _, cat := range categoryOrder {
		seen[cat] = true
		if len(r.byCategory[cat]) > 0 {
			result = append(result, cat)
		}
	}
	extra := make([]string, 0)
	for cat := range r.byCategory {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	return append(result, extra...)
}

// Search returns functions whose name or description contains the query,
// case-insensitive. An empty query returns everything.
func (r *FunctionRegistry) Search(q string) []FunctionMetadata {
	if q == "" {
		return r.GetAll()
	}
	q = strings.ToLower(q)
	var result []FunctionMetadata
	for _, name := range r.allNames {
		fn := r.functions[name]
		if strings.Contains(strings.ToLower(fn.Name), q) ||
			strings.Contains(strings.ToLower(fn.Description), q) {
			result = append(result, fn)
		}
	}
	return result
}

// Size returns the number of distinct functions.
func (r *FunctionRegistry) Size() int { return len(r.functions) }
