package completion

import "sync"

var (
	builtinsOnce sync.Once
	builtinsReg  *FunctionRegistry
)

// Builtins returns the shared builtin function registry, constructed once at
// first use and immutable afterwards.
func Builtins() *FunctionRegistry {
	builtinsOnce.Do(func() {
		builtinsReg = newRegistry(builtinTable)
	})
	return builtinsReg
}

// elementContext names the functions whose filter argument is evaluated once
// per element, so a path typed inside them is relative to one element rather
// than the whole array.
var elementContext = map[string]bool{
	"map":          true,
	"map_values":   true,
	"select":       true,
	"sort_by":      true,
	"group_by":     true,
	"unique_by":    true,
	"min_by":       true,
	"max_by":       true,
	"any":          true,
	"all":          true,
	"with_entries": true,
}

// shapeErasers are functions whose output field names cannot be inferred
// from the input's field names. A path downstream of one of these navigates
// a shape the engine cannot know statically.
var shapeErasers = map[string]bool{
	"keys":          true,
	"keys_unsorted": true,
	"values":        true,
	"path":          true,
	"paths":         true,
	"leaf_paths":    true,
	"getpath":       true,
	"to_entries":    true,
	"from_entries":  true,
	"group_by":      true,
	"flatten":       true,
	"add":           true,
	"transpose":     true,
	"tostream":      true,
	"fromstream":    true,
	"splits":        true,
}

// operatorTable holds the word operators surfaced alongside functions.
// Symbolic operators are not suggestible: typing one resets the partial.
var operatorTable = []Suggestion{
	{Text: "and", Kind: SuggestionOperator, Description: "Logical conjunction", Score: scoreOperator},
	{Text: "or", Kind: SuggestionOperator, Description: "Logical disjunction", Score: scoreOperator},
}

// patternTable holds fill-in templates for keyword forms that never appear
// in the builtin table.
var patternTable = []Suggestion{
	{Text: "if . then . else . end", Kind: SuggestionPattern, Description: "Conditional filter", Score: scorePattern},
	{Text: "reduce .[] as $item (0; .)", Kind: SuggestionPattern, Description: "Fold a stream into one value", Score: scorePattern},
	{Text: "foreach .[] as $item (0; .)", Kind: SuggestionPattern, Description: "Fold emitting every intermediate state", Score: scorePattern},
	{Text: "try . catch .", Kind: SuggestionPattern, Description: "Trap errors from a filter", Score: scorePattern},
	{Text: "def f: .;", Kind: SuggestionPattern, Description: "Define a local filter", Score: scorePattern},
	{Text: "label $out | .", Kind: SuggestionPattern, Description: "Named break target for a stream", Score: scorePattern},
}

// builtinVariables are always-defined $names merged into variable
// suggestions.
var builtinVariables = []Suggestion{
	{Text: "$ENV", Kind: SuggestionVariable, Description: "Environment variables as an object", Score: scoreVariable},
	{Text: "$__loc__", Kind: SuggestionVariable, Description: "File and line of the current location", Score: scoreVariable},
}

// builtinTable is the static jq builtin inventory used for function
// suggestions and the functions listing.
var builtinTable = []FunctionMetadata{
	// selection and iteration
	{Name: "map", Signature: "map(f)", Description: "Apply f to every element of the input array", Category: "selection", ReturnType: "array"},
	{Name: "map_values", Signature: "map_values(f)", Description: "Apply f to every value of an object or array", Category: "selection", ReturnType: "any"},
	{Name: "select", Signature: "select(cond)", Description: "Pass the input through when cond is true, else emit nothing", Category: "selection", ReturnType: "any"},
	{Name: "recurse", Signature: "recurse(f)", Description: "Emit the input and all values reachable via f", Category: "selection", ReturnType: "any"},
	{Name: "empty", Signature: "empty", Description: "Emit nothing", Category: "selection", ReturnType: "none"},
	{Name: "first", Signature: "first(f)", Description: "First output of f, or first element of an array", Category: "selection", ReturnType: "any"},
	{Name: "last", Signature: "last(f)", Description: "Last output of f, or last element of an array", Category: "selection", ReturnType: "any"},
	{Name: "limit", Signature: "limit(n; f)", Description: "At most n outputs of f", Category: "selection", ReturnType: "any"},
	{Name: "until", Signature: "until(cond; update)", Description: "Apply update until cond holds", Category: "selection", ReturnType: "any"},
	{Name: "while", Signature: "while(cond; update)", Description: "Emit states while cond holds", Category: "selection", ReturnType: "any"},
	{Name: "repeat", Signature: "repeat(f)", Description: "Apply f forever, emitting every state", Category: "selection", ReturnType: "any"},
	{Name: "range", Signature: "range(from; to; by)", Description: "Emit numbers over a range", Category: "selection", ReturnType: "number"},

	// object
	{Name: "keys", Signature: "keys", Description: "Sorted object keys, or array indices", Category: "object", ReturnType: "array"},
	{Name: "keys_unsorted", Signature: "keys_unsorted", Description: "Object keys in original order", Category: "object", ReturnType: "array"},
	{Name: "values", Signature: "values", Description: "Object values, or non-null inputs", Category: "object", ReturnType: "any"},
	{Name: "has", Signature: "has(key)", Description: "Whether the object has the key or index", Category: "object", ReturnType: "boolean"},
	{Name: "in", Signature: "in(obj)", Description: "Whether the input key is present in obj", Category: "object", ReturnType: "boolean"},
	{Name: "to_entries", Signature: "to_entries", Description: "Object to an array of {key, value} pairs", Category: "object", ReturnType: "array"},
	{Name: "from_entries", Signature: "from_entries", Description: "Array of {key, value} pairs back to an object", Category: "object", ReturnType: "object"},
	{Name: "with_entries", Signature: "with_entries(f)", Description: "Transform an object entry-wise with f", Category: "object", ReturnType: "object"},
	{Name: "del", Signature: "del(path)", Description: "Delete the value at a path", Category: "object", ReturnType: "any"},

	// path
	{Name: "getpath", Signature: "getpath(p)", Description: "Value at the path array p", Category: "path", ReturnType: "any"},
	{Name: "setpath", Signature: "setpath(p; v)", Description: "Set the value at the path array p", Category: "path", ReturnType: "any"},
	{Name: "delpaths", Signature: "delpaths(ps)", Description: "Delete all paths in ps", Category: "path", ReturnType: "any"},
	{Name: "paths", Signature: "paths", Description: "All paths of the input", Category: "path", ReturnType: "array"},
	{Name: "leaf_paths", Signature: "leaf_paths", Description: "Paths to scalar leaves", Category: "path", ReturnType: "array"},
	{Name: "path", Signature: "path(f)", Description: "Paths matched by the path expression f", Category: "path", ReturnType: "array"},

	// array
	{Name: "add", Signature: "add", Description: "Sum, concatenate or merge the elements", Category: "array", ReturnType: "any"},
	{Name: "any", Signature: "any(f)", Description: "Whether f holds for any element", Category: "array", ReturnType: "boolean"},
	{Name: "all", Signature: "all(f)", Description: "Whether f holds for every element", Category: "array", ReturnType: "boolean"},
	{Name: "flatten", Signature: "flatten(depth)", Description: "Flatten nested arrays", Category: "array", ReturnType: "array"},
	{Name: "group_by", Signature: "group_by(f)", Description: "Group elements by the value of f", Category: "array", ReturnType: "array"},
	{Name: "sort", Signature: "sort", Description: "Sort an array", Category: "array", ReturnType: "array"},
	{Name: "sort_by", Signature: "sort_by(f)", Description: "Sort an array by the value of f", Category: "array", ReturnType: "array"},
	{Name: "unique", Signature: "unique", Description: "Sorted distinct elements", Category: "array", ReturnType: "array"},
	{Name: "unique_by", Signature: "unique_by(f)", Description: "Distinct elements by the value of f", Category: "array", ReturnType: "array"},
	{Name: "min", Signature: "min", Description: "Minimum element", Category: "array", ReturnType: "any"},
	{Name: "max", Signature: "max", Description: "Maximum element", Category: "array", ReturnType: "any"},
	{Name: "min_by", Signature: "min_by(f)", Description: "Element minimizing f", Category: "array", ReturnType: "any"},
	{Name: "max_by", Signature: "max_by(f)", Description: "Element maximizing f", Category: "array", ReturnType: "any"},
	{Name: "reverse", Signature: "reverse", Description: "Reverse an array or string", Category: "array", ReturnType: "any"},
	{Name: "indices", Signature: "indices(s)", Description: "Indices where s occurs in the input", Category: "array", ReturnType: "array"},
	{Name: "index", Signature: "index(s)", Description: "First index where s occurs", Category: "array", ReturnType: "number"},
	{Name: "rindex", Signature: "rindex(s)", Description: "Last index where s occurs", Category: "array", ReturnType: "number"},
	{Name: "inside", Signature: "inside(c)", Description: "Whether the input is contained in c", Category: "array", ReturnType: "boolean"},
	{Name: "contains", Signature: "contains(c)", Description: "Whether the input contains c", Category: "array", ReturnType: "boolean"},
	{Name: "transpose", Signature: "transpose", Description: "Transpose a matrix of arrays", Category: "array", ReturnType: "array"},
	{Name: "combinations", Signature: "combinations", Description: "Cartesian product of array elements", Category: "array", ReturnType: "array"},

	// string
	{Name: "ascii_downcase", Signature: "ascii_downcase", Description: "Lowercase ASCII letters", Category: "string", ReturnType: "string"},
	{Name: "ascii_upcase", Signature: "ascii_upcase", Description: "Uppercase ASCII letters", Category: "string", ReturnType: "string"},
	{Name: "ltrimstr", Signature: "ltrimstr(s)", Description: "Strip a leading occurrence of s", Category: "string", ReturnType: "string"},
	{Name: "rtrimstr", Signature: "rtrimstr(s)", Description: "Strip a trailing occurrence of s", Category: "string", ReturnType: "string"},
	{Name: "startswith", Signature: "startswith(s)", Description: "Whether the string starts with s", Category: "string", ReturnType: "boolean"},
	{Name: "endswith", Signature: "endswith(s)", Description: "Whether the string ends with s", Category: "string", ReturnType: "boolean"},
	{Name: "split", Signature: "split(sep)", Description: "Split a string on a separator", Category: "string", ReturnType: "array"},
	{Name: "join", Signature: "join(sep)", Description: "Join array elements with a separator", Category: "string", ReturnType: "string"},
	{Name: "explode", Signature: "explode", Description: "String to an array of codepoints", Category: "string", ReturnType: "array"},
	{Name: "implode", Signature: "implode", Description: "Array of codepoints to a string", Category: "string", ReturnType: "string"},
	{Name: "ascii", Signature: "ascii", Description: "Codepoint to a one-character string", Category: "string", ReturnType: "string"},
	{Name: "utf8bytelength", Signature: "utf8bytelength", Description: "Byte length of the UTF-8 encoding", Category: "string", ReturnType: "number"},

	// regex
	{Name: "test", Signature: "test(re; flags)", Description: "Whether the regex matches", Category: "regex", ReturnType: "boolean"},
	{Name: "match", Signature: "match(re; flags)", Description: "Match objects for the regex", Category: "regex", ReturnType: "object"},
	{Name: "capture", Signature: "capture(re; flags)", Description: "Named capture groups as an object", Category: "regex", ReturnType: "object"},
	{Name: "scan", Signature: "scan(re)", Description: "Every non-overlapping match", Category: "regex", ReturnType: "any"},
	{Name: "splits", Signature: "splits(re; flags)", Description: "Split on a regex, emitting pieces", Category: "regex", ReturnType: "string"},
	{Name: "sub", Signature: "sub(re; s)", Description: "Replace the first regex match with s", Category: "regex", ReturnType: "string"},
	{Name: "gsub", Signature: "gsub(re; s)", Description: "Replace every regex match with s", Category: "regex", ReturnType: "string"},

	// math
	{Name: "floor", Signature: "floor", Description: "Round down to an integer", Category: "math", ReturnType: "number"},
	{Name: "ceil", Signature: "ceil", Description: "Round up to an integer", Category: "math", ReturnType: "number"},
	{Name: "round", Signature: "round", Description: "Round to the nearest integer", Category: "math", ReturnType: "number"},
	{Name: "fabs", Signature: "fabs", Description: "Absolute value", Category: "math", ReturnType: "number"},
	{Name: "sqrt", Signature: "sqrt", Description: "Square root", Category: "math", ReturnType: "number"},
	{Name: "pow", Signature: "pow(x; y)", Description: "x raised to the power y", Category: "math", ReturnType: "number"},
	{Name: "log", Signature: "log", Description: "Natural logarithm", Category: "math", ReturnType: "number"},
	{Name: "log2", Signature: "log2", Description: "Base-2 logarithm", Category: "math", ReturnType: "number"},
	{Name: "log10", Signature: "log10", Description: "Base-10 logarithm", Category: "math", ReturnType: "number"},
	{Name: "exp", Signature: "exp", Description: "e raised to the input", Category: "math", ReturnType: "number"},
	{Name: "infinite", Signature: "infinite", Description: "Positive infinity", Category: "math", ReturnType: "number"},
	{Name: "nan", Signature: "nan", Description: "Not-a-number", Category: "math", ReturnType: "number"},
	{Name: "isinfinite", Signature: "isinfinite", Description: "Whether the input is infinite", Category: "math", ReturnType: "boolean"},
	{Name: "isnan", Signature: "isnan", Description: "Whether the input is NaN", Category: "math", ReturnType: "boolean"},

	// conversion
	{Name: "tonumber", Signature: "tonumber", Description: "Parse the input as a number", Category: "conversion", ReturnType: "number"},
	{Name: "tostring", Signature: "tostring", Description: "Render the input as a string", Category: "conversion", ReturnType: "string"},
	{Name: "tojson", Signature: "tojson", Description: "Serialize the input to a JSON string", Category: "conversion", ReturnType: "string"},
	{Name: "fromjson", Signature: "fromjson", Description: "Parse a JSON string", Category: "conversion", ReturnType: "any"},
	{Name: "tostream", Signature: "tostream", Description: "Value to a stream of [path, leaf] events", Category: "stream", ReturnType: "array"},
	{Name: "fromstream", Signature: "fromstream(f)", Description: "Stream of events back to values", Category: "stream", ReturnType: "any"},
	{Name: "truncate_stream", Signature: "truncate_stream(f)", Description: "Drop leading path elements from a stream", Category: "stream", ReturnType: "any"},

	// datetime
	{Name: "now", Signature: "now", Description: "Current time in seconds since the epoch", Category: "datetime", ReturnType: "number"},
	{Name: "todate", Signature: "todate", Description: "Epoch seconds to an ISO 8601 string", Category: "datetime", ReturnType: "string"},
	{Name: "fromdate", Signature: "fromdate", Description: "ISO 8601 string to epoch seconds", Category: "datetime", ReturnType: "number"},
	{Name: "strftime", Signature: "strftime(fmt)", Description: "Format broken-down time", Category: "datetime", ReturnType: "string"},
	{Name: "strptime", Signature: "strptime(fmt)", Description: "Parse a time string to broken-down time", Category: "datetime", ReturnType: "array"},
	{Name: "mktime", Signature: "mktime", Description: "Broken-down time to epoch seconds", Category: "datetime", ReturnType: "number"},
	{Name: "gmtime", Signature: "gmtime", Description: "Epoch seconds to broken-down UTC time", Category: "datetime", ReturnType: "array"},
	{Name: "localtime", Signature: "localtime", Description: "Epoch seconds to broken-down local time", Category: "datetime", ReturnType: "array"},

	// general
	{Name: "length", Signature: "length", Description: "Length of a string, array, object or number", Category: "general", ReturnType: "number"},
	{Name: "type", Signature: "type", Description: "Type name of the input", Category: "general", ReturnType: "string"},
	{Name: "not", Signature: "not", Description: "Logical negation of the input", Category: "general", ReturnType: "boolean"},
	{Name: "error", Signature: "error(msg)", Description: "Raise an error with the message", Category: "general", ReturnType: "none"},
	{Name: "debug", Signature: "debug", Description: "Emit the input to stderr and pass it through", Category: "general", ReturnType: "any"},
	{Name: "input", Signature: "input", Description: "Next input value", Category: "general", ReturnType: "any"},
	{Name: "inputs", Signature: "inputs", Description: "All remaining input values", Category: "general", ReturnType: "any"},
	{Name: "env", Signature: "env", Description: "Environment variables as an object", Category: "general", ReturnType: "object"},
	{Name: "halt", Signature: "halt", Description: "Stop with exit code 0", Category: "general", ReturnType: "none"},
	{Name: "halt_error", Signature: "halt_error(code)", Description: "Stop with the input as the error", Category: "general", ReturnType: "none"},
}
