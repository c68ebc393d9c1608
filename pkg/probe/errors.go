package probe

import "fmt"

// ResolutionError reports that file metadata (or the declared layout) could
// not be resolved for a path: the store was unreachable, or the path is
// unknown to it.
//
// Resolution failures are fatal to the invocation and are never downgraded
// to default metadata; guessing a kind silently produces wrong schemas
// downstream.
type ResolutionError struct {
	Path string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve metadata for %s: %v", e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// UnsupportedKindError reports a recognized-but-unhandled storage kind.
// The offending kind is carried so callers can display it.
//
// Invocations that fail this way still return an empty, well-shaped result
// alongside the error ("fail soft on shape, fail loud on cause"); consumers
// expecting a record sequence need no special casing, while the cause stays
// observable.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported file kind %q", e.Kind)
}
