package memsnap

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when operating on a closed snapshot or view.
	ErrClosed = errors.New("memsnap: closed")

	// ErrSnapshotBusy is returned when creating a view would violate the
	// aliasing discipline: at most one mutable view, any number of
	// copy-on-write views, never both at once.
	ErrSnapshotBusy = errors.New("memsnap: snapshot has conflicting views")

	// ErrMisalignedRange is returned by View.Protect when the byte range is
	// not page-aligned.
	ErrMisalignedRange = errors.New("memsnap: range is not page-aligned")

	// ErrOutOfBounds is returned when a byte range falls outside the view.
	ErrOutOfBounds = errors.New("memsnap: range out of bounds")
)

// RangeError describes an invalid byte range passed to View.Protect.
// It is detected before any OS call is attempted.
//
// The underlying sentinel (ErrMisalignedRange or ErrOutOfBounds) can be
// matched with errors.Is.
type RangeError struct {
	Off   int
	Len   int
	Size  int
	cause error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("memsnap: invalid range [%d, %d) for view of size %d: %v",
		e.Off, e.Off+e.Len, e.Size, e.cause)
}

func (e *RangeError) Unwrap() error { return e.cause }
