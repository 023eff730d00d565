package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Content is the schemaless JSON object stored on an item.
// Producers name keys inconsistently (valor/preco/preço), so readers go through
// the fallback-chain accessors below instead of a fixed schema.
type Content map[string]any

// CoerceContent guarantees an object: nil becomes {}, maps pass through and any
// other value is wrapped as {"descricao": <value as text>}.
func CoerceContent(v any) Content {
	switch c := v.(type) {
	case nil:
		return Content{}
	case Content:
		if c == nil {
			return Content{}
		}
		return c
	case map[string]any:
		if c == nil {
			return Content{}
		}
		return Content(c)
	default:
		return Content{"descricao": FormatValue(v)}
	}
}

// First returns the value of the first key holding a non-empty value.
func (c Content) First(keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := c[k]
		if !ok || isEmptyValue(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// Text returns the first non-empty value among keys rendered as text, or "".
func (c Content) Text(keys ...string) string {
	v, ok := c.First(keys...)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// TextOr is Text with a fallback for missing values.
func (c Content) TextOr(fallback string, keys ...string) string {
	if s := c.Text(keys...); s != "" {
		return s
	}
	return fallback
}

// SortedKeys returns the content keys in lexical order.
func (c Content) SortedKeys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSON returns the compact JSON encoding used for substring search.
func (c Content) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}

// FormatValue renders a decoded JSON value as display text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, FormatValue(e))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	}
	return false
}
