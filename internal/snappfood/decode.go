package snappfood

import (
	"encoding/json"
	"strconv"
)

// Lenient accessors over the decoded payload. The upstream API is not
// versioned and omits or retypes fields freely; a wrong-typed field reads as
// the default instead of failing the whole payload.

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func asList(v interface{}) []interface{} {
	if l, ok := v.([]interface{}); ok {
		return l
	}
	return nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// asValueString renders a scalar payload value as its export cell text.
// Integral floats render without a fractional part; nil renders as def.
func asValueString(v interface{}, def string) string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return def
	}
}

// boolString renders a flag in the export convention.
func boolString(v interface{}) string {
	if asBool(v) {
		return "True"
	}
	return "False"
}

// listJSON compactly encodes a payload list, treating nil or any non-list
// value as the empty list.
func listJSON(v interface{}) string {
	l, ok := v.([]interface{})
	if !ok || l == nil {
		return "[]"
	}
	b, err := json.Marshal(l)
	if err != nil {
		return "[]"
	}
	return string(b)
}
