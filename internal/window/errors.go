package window

import (
	"errors"
	"fmt"
)

var (
	// ErrWindowLookup matches any *LookupError.
	ErrWindowLookup = errors.New("window lookup failed")
	// ErrUnsupported matches any *UnsupportedError.
	ErrUnsupported = errors.New("operation not supported")
	// ErrTreeTooDeep is wrapped by a LookupError when the ancestor walk
	// exceeds MaxAncestorDepth.
	ErrTreeTooDeep = errors.New("window tree deeper than limit")
)

// LookupError reports that a window handle could not be read, usually
// because the window was destroyed while winctl was looking at it.
type LookupError struct {
	ID  ID
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("window %s: %s failed", e.ID, e.Op)
	}
	return fmt.Sprintf("window %s: %s failed: %v", e.ID, e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrWindowLookup }

// UnsupportedError reports an operation the running window manager or X
// server cannot perform.
type UnsupportedError struct {
	Op     string
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported: %s", e.Op, e.Reason)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

func lookupErr(id ID, op string, err error) error {
	var le *LookupError
	if errors.As(err, &le) {
		return err
	}
	return &LookupError{ID: id, Op: op, Err: err}
}
