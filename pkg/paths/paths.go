// Package paths implements the dot/bracket field-path addressing used across
// go-formbind: reading and writing values inside nested map/slice data,
// deriving observation-safe identifiers, and flattening data into leaf paths.
package paths

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sanitize derives an observation-safe identifier from a field path by
// replacing the structural characters (dots and brackets) with underscores.
// The result is deterministic and collision-free across typical path shapes
// (e.g. "items[0].name" becomes "items_0_name").
func Sanitize(path string) string {
	replacer := strings.NewReplacer("[", "_", "]", "", ".", "_")
	return replacer.Replace(strings.TrimSpace(path))
}

// GroupKey returns the path prefix before the first bracket, used to group
// validation across collection elements ("items[2].qty" yields "items").
func GroupKey(path string) string {
	trimmed := strings.TrimSpace(path)
	if idx := strings.IndexByte(trimmed, '['); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// Normalize strips collection indices from a path so concrete element paths
// can be matched against index-free rule keys ("items[0].qty" yields
// "items.qty").
func Normalize(path string) string {
	segments := Segments(path)
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return strings.Join(out, ".")
}

// Segments splits a path into its component segments. Bracket indices become
// standalone numeric segments ("items[2].name" yields ["items", "2", "name"]).
func Segments(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}
	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = replacer.Replace(clean)
	parts := strings.Split(clean, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

// Read resolves a path against nested map[string]any / []any data. The second
// return value reports whether every segment resolved; a missing key or an
// out-of-range index yields (nil, false) so callers can distinguish an unset
// key from a stored nil.
func Read(data any, path string) (any, bool) {
	segments := Segments(path)
	if len(segments) == 0 {
		return nil, false
	}
	current := data
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Write stores a value at the given path, creating intermediate maps and
// growing slices as needed. The root must be a map[string]any; numeric
// segments address slices and create them when absent.
func Write(data map[string]any, path string, value any) error {
	segments := Segments(path)
	if len(segments) == 0 {
		return fmt.Errorf("paths: empty path")
	}
	if data == nil {
		return fmt.Errorf("paths: nil data object")
	}

	var current any = data
	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]
		next, err := descend(current, segment, segments[i+1])
		if err != nil {
			return fmt.Errorf("paths: write %q: %w", path, err)
		}
		current = next
	}

	last := segments[len(segments)-1]
	switch node := current.(type) {
	case map[string]any:
		node[last] = value
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(node) {
			return fmt.Errorf("paths: write %q: index %q out of range", path, last)
		}
		node[idx] = value
	default:
		return fmt.Errorf("paths: write %q: cannot set %q on %T", path, last, current)
	}
	return nil
}

// descend returns the container at segment, creating it when missing. The
// following segment decides whether a map or a slice is created.
func descend(current any, segment, next string) (any, error) {
	nextIdx, nextErr := strconv.Atoi(next)

	switch node := current.(type) {
	case map[string]any:
		child, ok := node[segment]
		if !ok || child == nil {
			if nextErr == nil {
				created := make([]any, nextIdx+1)
				node[segment] = created
				return node[segment], nil
			}
			created := make(map[string]any)
			node[segment] = created
			return created, nil
		}
		if slice, ok := child.([]any); ok && nextErr == nil && nextIdx >= len(slice) {
			grown := append(slice, make([]any, nextIdx+1-len(slice))...)
			node[segment] = grown
			return grown, nil
		}
		return node[segment], nil
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, fmt.Errorf("index %q out of range", segment)
		}
		if node[idx] == nil {
			if nextErr == nil {
				node[idx] = make([]any, nextIdx+1)
			} else {
				node[idx] = make(map[string]any)
			}
		}
		return node[idx], nil
	default:
		return nil, fmt.Errorf("cannot descend into %T at %q", current, segment)
	}
}

// Flatten returns the sorted leaf paths contained in nested map/slice data.
// Scalars and empty containers count as leaves; slice elements render with
// bracket indices ("items[0].qty").
func Flatten(data any) []string {
	var out []string
	flattenInto(data, "", &out)
	sort.Strings(out)
	return out
}

func flattenInto(data any, prefix string, out *[]string) {
	switch node := data.(type) {
	case map[string]any:
		if len(node) == 0 {
			appendLeaf(prefix, out)
			return
		}
		for key, value := range node {
			child := key
			if prefix != "" {
				child = prefix + "." + key
			}
			flattenInto(value, child, out)
		}
	case []any:
		if len(node) == 0 {
			appendLeaf(prefix, out)
			return
		}
		for idx, value := range node {
			flattenInto(value, fmt.Sprintf("%s[%d]", prefix, idx), out)
		}
	default:
		appendLeaf(prefix, out)
	}
}

func appendLeaf(path string, out *[]string) {
	if path != "" {
		*out = append(*out, path)
	}
}
