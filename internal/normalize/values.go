package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type object = map[string]any

// generic converts arbitrary Go values into the decoded-JSON shape
// (map[string]any, []any, string, float64, bool, nil).
func generic(raw any) any {
	switch v := raw.(type) {
	case nil, map[string]any, []any, string, float64, bool, json.Number:
		return v
	case json.RawMessage:
		return decode(v)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	return decode(data)
}

func decode(data []byte) any {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// asObject returns v as an object, or nil when it is any other shape.
func asObject(v any) object {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// asList returns v as a list, or nil when it is any other shape.
func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

// text coerces strings and numbers to a string. Everything else is absent.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// pick returns the value under the first candidate key that is present and non-null.
func pick(obj object, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// pickObject returns the first candidate key holding an object.
func pickObject(obj object, keys ...string) object {
	for _, k := range keys {
		if m := asObject(obj[k]); m != nil {
			return m
		}
	}
	return nil
}

// pickList returns the first candidate key holding a list.
func pickList(obj object, keys ...string) []any {
	for _, k := range keys {
		if l := asList(obj[k]); l != nil {
			return l
		}
	}
	return nil
}

// pickString returns the first candidate key holding non-blank text, else def.
// blank matches the emptiness rule of pickString.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func pickString(obj object, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := text(obj[k]); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// pickBool reports whether any candidate key holds boolean true.
func pickBool(obj object, keys ...string) bool {
	for _, k := range keys {
		if b, ok := obj[k].(bool); ok && b {
			return true
		}
	}
	return false
}

// stringList keeps the text-like items of v. A lone string becomes a single item.
func stringList(v any) []string {
	out := []string{}
	if s, ok := text(v); ok {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
		return out
	}
	for _, item := range asList(v) {
		if s, ok := text(item); ok {
			out = append(out, s)
		}
	}
	return out
}
