// Package docpath resolves slash-delimited paths against decoded JSON
// values. Paths are not JSONPath: segments are object keys or base-10
// array indexes, a leading slash marks the path as document-absolute,
// and repeated or trailing slashes are ignored.
package docpath

import (
	"strconv"
	"strings"
)

// Resolution is the outcome of resolving a path. A found null is a
// different outcome than a path that does not exist, so presence is
// tracked separately from the value.
type Resolution struct {
	Value any
	Found bool
}

func found(value any) Resolution {
	return Resolution{Value: value, Found: true}
}

var notFound = Resolution{}

// IsAbsolute reports whether path selects from the document root
// rather than the current candidate.
func IsAbsolute(path string) bool {
	return strings.HasPrefix(path, "/")
}

// Resolve walks path segment by segment starting at value.
// It never returns an error; any unresolvable segment yields NotFound.
func Resolve(value any, path string) Resolution {
	current := value
	for segment := range strings.SplitSeq(path, "/") {
		if segment == "" {
			continue
		}

		switch node := current.(type) {
		case map[string]any:
			child, ok := node[segment]
			if !ok {
				return notFound
			}
			current = child
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return notFound
			}
			if index < 0 {
				index += len(node)
			}
			if index < 0 || index >= len(node) {
				return notFound
			}
			current = node[index]
		default:
			return notFound
		}
	}

	return found(current)
}
