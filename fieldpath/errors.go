package fieldpath

import (
	"errors"
	"fmt"
)

// ErrTraversal is matched by every *TraversalError.
var ErrTraversal = errors.New("path traversal failed")

// TraversalError reports a segment that could not be reached while walking a path.
type TraversalError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *TraversalError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
	}

	return fmt.Sprintf("path %q: segment %q %s", e.Path, e.Segment, e.Reason)
}

func (e *TraversalError) Unwrap() error {
	return ErrTraversal
}
