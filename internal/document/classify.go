package document

import "encoding/json"

// ResultType classifies the shape of an evaluation result. Arrays whose
// elements are all objects are distinguished from mixed arrays, and a
// multi-value output stream is distinguished from a single value, because
// each shape feeds a different suggestion strategy downstream.
type ResultType int

const (
	TypeNull ResultType = iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
	TypeArray
	TypeObjectArray
	TypeDestructured
)

// String returns the status-line label for the type.
func (t ResultType) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeObjectArray:
		return "array of objects"
	case TypeDestructured:
		return "destructured"
	default:
		return "null"
	}
}

// Classify determines the result type from the already-parsed value. multi
// reports that the evaluator emitted more than one top-level value, which
// overrides the shape of the first value. No re-parsing happens here.
func Classify(v interface{}, multi bool) ResultType {
	if multi {
		return TypeDestructured
	}
	switch t := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case float64, int, int64, json.Number:
		return TypeNumber
	case string:
		return TypeString
	case map[string]interface{}:
		return TypeObject
	case []interface{}:
		if len(t) > 0 && allObjects(t) {
			return TypeObjectArray
		}
		return TypeArray
	default:
		return TypeString
	}
}

func allObjects(arr []interface{}) bool {
	for _, el := range arr {
		if _, ok := el.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}
