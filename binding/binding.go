// Package binding substitutes ${path} placeholders in image text with
// values from a decoded JSON document.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces every ${path.to[0].value} in text with the
// matching value from data. Unresolvable paths keep their
// placeholder, so partial data never destroys the text.
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

func lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// splitSegment breaks "items[2][0]" into its name and index chain.
func splitSegment(segment string) (string, []int, bool) {
	name, rest, found := strings.Cut(segment, "[")
	if !found {
		return segment, nil, true
	}
	var indexes []int
	rest = "[" + rest
	for rest != "" {
		inner, tail, found := strings.Cut(strings.TrimPrefix(rest, "["), "]")
		if !found || !strings.HasPrefix(rest, "[") {
			return "", nil, false
		}
		idx, err := strconv.Atoi(inner)
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = tail
	}
	return name, indexes, true
}
