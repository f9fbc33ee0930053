package xrender

import "fmt"

// InternalError reports a broken internal invariant: unregistering something
// that was never registered, misusing a batch Begin/End pair and similar
// programming bugs. It is raised with panic and is not meant to be
// recovered by callers.
type InternalError struct {
	Op  string
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("xrender: internal error in %s: %s", e.Op, e.Msg)
}

// Bug panics with an *InternalError for op.
func Bug(op, format string, args ...any) {
	panic(&InternalError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
