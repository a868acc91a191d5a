package validators

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"supermodeler/fieldpath"
)

// Func validates one field value. An empty return means the value is accepted.
type Func func(value any, opts Options, field string, attrs fieldpath.Record) string

// Options carries per-field predicate options, e.g. {"notEmpty": true}.
type Options map[string]any

// Bool returns the boolean option named key, or false.
func (o Options) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

// Int returns the integer option named key. The second result is false when
// the option is absent or not a whole number.
func (o Options) Int(key string) (int, bool) {
	switch v := o[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}

	return 0, false
}

// Set dispatches predicates by kind.
type Set struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewSet creates an empty predicate set.
func NewSet() *Set {
	return &Set{funcs: make(map[string]Func)}
}

// Default returns a new set holding the built-in kinds.
func Default() *Set {
	s := NewSet()
	s.Register("string", String)
	s.Register("boolean", Boolean)
	s.Register("array", Array)
	s.Register("presence", Presence)

	return s
}

// Register adds or replaces the predicate for kind.
func (s *Set) Register(kind string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.funcs[kind] = fn
}

// Has returns true if a predicate is registered for kind.
func (s *Set) Has(kind string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.funcs[kind]

	return ok
}

// Kinds returns the registered kinds, sorted.
func (s *Set) Kinds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.funcs))
}

// Validate runs the predicate registered for kind.
func (s *Set) Validate(kind string, value any, opts Options, field string, attrs fieldpath.Record) (string, error) {
	s.mu.RLock()
	fn, ok := s.funcs[kind]
	s.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown validator kind %q", kind)
	}

	if opts == nil {
		opts = Options{}
	}

	return fn(value, opts, field, attrs), nil
}
