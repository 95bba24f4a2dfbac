// Package tree reads values out of decoded JSON documents
// (map[string]any / []any trees) without panicking on missing or
// mistyped fields.
package tree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Get walks keys from root and returns the value found, if any. A JSON null
// counts as missing.
func Get(root any, keys ...string) (any, bool) {
	cur := root
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, cur != nil
}

// Map returns the object at keys.
func Map(root any, keys ...string) (map[string]any, bool) {
	v, ok := Get(root, keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// List returns the array at keys.
func List(root any, keys ...string) ([]any, bool) {
	v, ok := Get(root, keys...)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

// String returns the string at keys, or "" when absent or not a string.
func String(root any, keys ...string) string {
	v, ok := Get(root, keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Float returns the number at keys. Numeric strings are accepted.
func Float(root any, keys ...string) (float64, bool) {
	v, ok := Get(root, keys...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// FloatOr returns the number at keys, or def.
func FloatOr(root any, def float64, keys ...string) float64 {
	if f, ok := Float(root, keys...); ok {
		return f
	}
	return def
}

// Bool returns the boolean at keys, or def when absent or not a boolean.
func Bool(root any, def bool, keys ...string) bool {
	v, ok := Get(root, keys...)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Path joins keys for error messages.
func Path(keys ...string) string {
	return strings.Join(keys, ".")
}
