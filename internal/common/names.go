package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PathSeparator separates segments of dotted field paths ("group.id").
const PathSeparator = "."

// IsDotted returns true if name contains a path separator.
func IsDotted(name string) bool {
	return strings.Contains(name, PathSeparator)
}

// PairKey returns the registry key for an ordered (source, target) type pair.
func PairKey(source, target string) string {
	return source + "->" + target
}
