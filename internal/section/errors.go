package section

import "fmt"

// NotFound is the index returned when a row cannot be resolved.
const NotFound = -1

// InvariantError reports a section list built inconsistently. It is raised
// with panic: callers cannot recover from a model whose anchors are missing.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("section invariant violated in %s: %s", e.Op, e.Detail)
}
