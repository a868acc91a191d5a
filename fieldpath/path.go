package fieldpath

import (
	"errors"
	"fmt"
	"strings"

	"supermodeler/internal/common"
)

// Path is a parsed dotted field path.
type Path struct {
	Segments []string
}

// Parse parses a dotted path string into a Path.
// Supports: "Field", "Nested.Field", "a.b.c".
func Parse(path string) (Path, error) {
	if path == "" {
		return Path{}, errors.New("empty path")
	}

	segments := strings.Split(path, common.PathSeparator)
	for _, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("invalid path %q: empty segment", path)
		}
	}

	return Path{Segments: segments}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and package-level path constants.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the path in dotted form.
func (p Path) String() string {
	return strings.Join(p.Segments, common.PathSeparator)
}

// IsSimple returns true if this is a single-segment path.
func (p Path) IsSimple() bool {
	return len(p.Segments) == 1
}

// Root returns the first segment.
func (p Path) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0]
}

// IsEmpty returns true if the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Equals returns true if two paths are equal.
func (p Path) Equals(other Path) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}

	for i, seg := range p.Segments {
		if seg != other.Segments[i] {
			return false
		}
	}

	return true
}

// Get reads the value at p from src.
func (p Path) Get(src any) (any, error) {
	cur := src
	last := len(p.Segments) - 1

	for i, seg := range p.Segments {
		rec, ok := AsRecord(cur)
		if !ok {
			if i == 0 {
				return nil, p.traversalError("", "source is not a container")
			}

			return nil, p.traversalError(p.Segments[i-1], "is not a container")
		}

		val, found := rec.Get(seg)
		if i == last {
			return val, nil
		}

		if !found || val == nil {
			return nil, p.traversalError(seg, "is missing")
		}

		cur = val
	}

	return nil, errors.New("empty path")
}

// Set writes value at p into dst, creating missing intermediate containers.
func (p Path) Set(dst Container, value any) error {
	if p.IsEmpty() {
		return errors.New("empty path")
	}

	cur := dst
	last := len(p.Segments) - 1

	for _, seg := range p.Segments[:last] {
		val, found := cur.Get(seg)
		if !found || val == nil {
			if err := cur.Put(seg, map[string]any{}); err != nil {
				return err
			}

			// Re-read: the container may convert what it stores.
			val, _ = cur.Get(seg)
		}

		next, ok := AsContainer(val)
		if !ok {
			return p.traversalError(seg, "is not a container")
		}

		cur = next
	}

	return cur.Put(p.Segments[last], value)
}

func (p Path) traversalError(seg, reason string) *TraversalError {
	return &TraversalError{Path: p.String(), Segment: seg, Reason: reason}
}

// Get parses path and reads it from src.
func Get(src any, path string) (any, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, err
	}

	return p.Get(src)
}

// Set parses path and writes value into dst.
func Set(dst Container, path string, value any) error {
	p, err := Parse(path)
	if err != nil {
		return err
	}

	return p.Set(dst, value)
}
