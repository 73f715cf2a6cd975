// Package sanitize strips query-operator keys from untrusted input before
// it reaches a handler.
package sanitize

import (
	"net/url"
	"strings"
)

// IsOperatorKey reports whether key looks like a database query operator
// or a path into a nested document.
func IsOperatorKey(key string) bool {
	return strings.HasPrefix(key, "$") ||
		strings.Contains(key, ".") ||
		strings.Contains(key, "[$")
}

// Value returns a copy of v with every operator key removed at any depth,
// and the number of keys removed. v is expected to be the result of
// decoding JSON into an any: maps, slices and scalars.
//
// A key whose object value consisted only of operator keys is removed as
// well, so {"email": {"$ne": ""}} becomes {}.
func Value(v any) (any, int) {
	switch t := v.(type) {
	case map[string]any:
		return cleanMap(t)
	case []any:
		out := make([]any, len(t))
		removed := 0
		for i, item := range t {
			var n int
			out[i], n = Value(item)
			removed += n
		}
		return out, removed
	default:
		return v, 0
	}
}

func cleanMap(m map[string]any) (map[string]any, int) {
	out := make(map[string]any, len(m))
	removed := 0

	for k, val := range m {
		if IsOperatorKey(k) {
			removed++
			continue
		}

		cleaned, n := Value(val)
		removed += n

		if nested, ok := cleaned.(map[string]any); ok && n > 0 && len(nested) == 0 {
			if orig, _ := val.(map[string]any); len(orig) > 0 {
				removed++
				continue
			}
		}

		out[k] = cleaned
	}

	return out, removed
}

// Query returns a copy of q without operator keys, including the bracket
// form used by form encoders ("email[$ne]=x").
func Query(q url.Values) (url.Values, int) {
	out := make(url.Values, len(q))
	removed := 0

	for k, vals := range q {
		if IsOperatorKey(k) {
			removed++
			continue
		}
		out[k] = vals
	}

	return out, removed
}
