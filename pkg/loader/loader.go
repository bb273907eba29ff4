// Package loader parses raw input into the document tree and the canonical
// JSON text handed to the evaluator. JSON, NDJSON, YAML (single and
// multi-document), TOML and JWT inputs are auto-detected; every tree is
// normalized to jq-style values (map[string]interface{}, []interface{},
// float64, string, bool, nil) so navigation and evaluation agree on shape.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the detected input syntax.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatJWT    Format = "jwt"
)

// Document is a loaded input: the parsed tree plus its canonical JSON text.
// Root and Text always describe the same value, so the suggestion engine and
// the evaluator never disagree about the document.
type Document struct {
	Root   interface{}
	Text   string
	Format Format
}

// Load parses input, auto-detecting the format:
//   - JWT tokens (3-part base64url) become {header, payload, signature}
//   - a single JSON value keeps its original text verbatim
//   - newline-delimited JSON and multi-document YAML become one array root
//   - YAML and TOML are converted to their JSON equivalent
func Load(input string) (Document, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Document{}, fmt.Errorf("empty input")
	}

	format, values, err := detect(trimmed)
	if err != nil {
		return Document{}, err
	}

	var root interface{}
	if len(values) == 1 {
		root = values[0]
	} else {
		root = values
	}

	// A single JSON value passes through untouched: the evaluator sees
	// exactly the bytes the user supplied.
	if format == FormatJSON {
		return Document{Root: root, Text: trimmed, Format: format}, nil
	}

	root, text, err := canonicalize(root)
	if err != nil {
		return Document{}, fmt.Errorf("convert %s input: %w", format, err)
	}
	return Document{Root: root, Text: text, Format: format}, nil
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Load(string(data))
}

// LoadReader slurps r, typically stdin, and parses it.
func LoadReader(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	return Load(string(data))
}

// LoadObject accepts an already parsed Go value from an embedding caller.
// Strings and byte slices go through format detection; other values are
// normalized into the canonical tree via their JSON form, which respects
// struct tags.
func LoadObject(value any) (Document, error) {
	if isNilValue(value) {
		return Document{}, fmt.Errorf("object input is nil")
	}

	switch v := value.(type) {
	case string:
		return Load(v)
	case []byte:
		return Load(string(v))
	}

	root, text, err := canonicalize(value)
	if err != nil {
		return Document{}, err
	}
	return Document{Root: root, Text: text, Format: FormatJSON}, nil
}

// detect routes input to the right parser. Order matters: JWT and the
// multi-document marker are the most distinctive, TOML must run before JSON
// because a [section] header reads like a JSON array, and YAML is the final
// catch-all.
func detect(input string) (Format, []interface{}, error) {
	if IsJWT(input) {
		values, err := loadJWT(input)
		return FormatJWT, values, err
	}

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		values, err := loadMultiDocYAML(input)
		return FormatYAML, values, err
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		values, err := loadNDJSON(input)
		return FormatNDJSON, values, err
	}

	if isLikelyTOML(input) {
		values, err := loadTOML(input)
		return FormatTOML, values, err
	}

	if json.Valid([]byte(input)) {
		values, err := loadJSON(input)
		return FormatJSON, values, err
	}

	values, err := loadYAML(input)
	return FormatYAML, values, err
}

// canonicalize renders v as compact JSON and reparses it, so numbers, keys
// and container types match what the evaluator produces on its own side.
func canonicalize(v interface{}) (interface{}, string, error) {
	n, err := normalizeValue(v, 0)
	if err != nil {
		return nil, "", err
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, "", err
	}
	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, "", err
	}
	return root, string(data), nil
}

// loadJSON parses a single JSON value and wraps it in []interface{}.
func loadJSON(input string) ([]interface{}, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []interface{}{data}, nil
}

// loadYAML parses a single YAML document and wraps it in []interface{}.
func loadYAML(input string) ([]interface{}, error) {
	var data interface{}
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []interface{}{data}, nil
}

// loadMultiDocYAML parses YAML with multiple documents separated by ---.
func loadMultiDocYAML(input string) ([]interface{}, error) {
	var results []interface{}
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc interface{}
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses newline-delimited JSON. Lines that fail to parse are
// kept as plain strings, matching how log streams mix JSON and bare text.
func loadNDJSON(input string) ([]interface{}, error) {
	lines := strings.Split(input, "\n")
	results := make([]interface{}, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var obj interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			results = append(results, line)
			continue
		}
		results = append(results, obj)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON reports whether the input looks like newline-delimited
// JSON. A majority of non-empty lines must start with '{' or '[', which
// keeps YAML list files (many "- item" lines) out.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++

		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// Pattern for TOML section headers: [section] or [[array]], with bare,
// quoted, or dotted keys. JSON arrays like [1, 2, 3] do not match.
var tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)

// Pattern for TOML key = value lines (key: value is YAML).
var tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)

// isLikelyTOML reports whether the input looks like TOML: any section
// header, or a majority of key = value lines.
func isLikelyTOML(input string) bool {
	lines := strings.Split(input, "\n")

	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

// loadTOML parses TOML content and wraps it in []interface{}.
func loadTOML(input string) ([]interface{}, error) {
	var data interface{}
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []interface{}{data}, nil
}
