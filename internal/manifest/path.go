package manifest

import "strings"

// Lookup resolves a dotted path against a decoded YAML tree, descending
// through nested mappings. A path that traverses through a non-map is
// treated as absent, not an error.
func Lookup(tree map[string]any, path string) (any, bool) {
	var current any = tree
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// LookupString resolves a dotted path to a string leaf. Non-string and
// absent values yield "".
func LookupString(tree map[string]any, path string) string {
	v, ok := Lookup(tree, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// IsEmpty reports whether a leaf value counts as missing for required-field
// checks: nil, empty string, or an empty map/slice.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	default:
		return false
	}
}

// Sequence returns a path's value as a list of mappings, skipping entries
// of other shapes. Absent paths yield nil.
func Sequence(tree map[string]any, path string) []map[string]any {
	v, ok := Lookup(tree, path)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
