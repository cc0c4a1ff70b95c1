package memsnap

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/jprendes/memsnap/internal/vmem"
)

// View is a live mapping of a Snapshot's content into the process address
// space, readable and writable at byte granularity.
//
// Views come in two modes. A copy-on-write view (from Snapshot.View or
// Snapshot.ViewShared) keeps its writes private; a mutable view (from
// Snapshot.ViewMut) writes straight through to the snapshot.
//
// A View is safe to hand across goroutines, but the package performs no
// synchronization of concurrent byte access: coordinating writers is the
// caller's job, exactly as with any raw shared memory.
type View struct {
	snap    *Snapshot
	mapping *vmem.Mapping
	mode    ViewMode
	closed  atomic.Bool
}

// Len returns the length of the view in bytes. It equals the snapshot size.
func (v *View) Len() int {
	return v.snap.size
}

// IsEmpty reports whether the view has length zero.
func (v *View) IsEmpty() bool {
	return v.snap.size == 0
}

// Mode returns the view's mode.
func (v *View) Mode() ViewMode {
	return v.mode
}

// Bytes returns the entire mapped byte range. Writes to the slice are
// writes through the view.
//
// The slice is valid only until Close is called; the base address is stable
// across Restore, so the same slice keeps working after one. Returns nil
// once the view is closed.
func (v *View) Bytes() []byte {
	if v.closed.Load() {
		return nil
	}
	return v.mapping.Bytes()
}

// Addr returns the base address of the view. The address is stable for the
// lifetime of the view, across Restore included.
func (v *View) Addr() uintptr {
	return v.mapping.Addr()
}

// ReadAt implements io.ReaderAt over the view's content.
func (v *View) ReadAt(p []byte, off int64) (n int, err error) {
	if v.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrOutOfBounds
	}
	b := v.mapping.Bytes()
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n = copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt over the view's content.
// Writes never grow the view; writing past the end returns io.ErrShortWrite
// after the in-range prefix has been written.
func (v *View) WriteAt(p []byte, off int64) (n int, err error) {
	if v.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrOutOfBounds
	}
	b := v.mapping.Bytes()
	if off > int64(len(b)) {
		return 0, ErrOutOfBounds
	}
	n = copy(b[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Restore discards all changes made through this view since it was mapped
// (or since the last restore), reverting its content to the snapshot
// baseline without changing the view's base address. Callers may hold raw
// pointers into the view across a restore.
//
// Restoring also resets any page protection applied with Protect back to
// the mapping's default read+write state.
//
// For mutable views Restore is a no-op: they always reflect the snapshot's
// live content.
func (v *View) Restore() error {
	if v.closed.Load() {
		return ErrClosed
	}
	if v.mode == ModeMutable {
		return nil
	}
	start := time.Now()
	err := v.mapping.Remap()
	v.snap.logger.LogRestore(v.mapping.Addr(), err)
	v.snap.metrics.RecordRestore(time.Since(start), err)
	return err
}

// Protect restricts the access permissions of the byte range
// [off, off+n) of the view. Both endpoints must be multiples of the system
// page size, and the range must be non-empty and within the view; invalid
// ranges are rejected with a *RangeError before any OS call.
//
// Permissions combine with bitwise OR. AccessWrite implies AccessRead.
// AccessNone revokes all access, making both reads and writes fault.
func (v *View) Protect(off, n int, allow Access) error {
	if v.closed.Load() {
		return ErrClosed
	}
	err := v.validateRange(off, n)
	if err == nil {
		err = v.mapping.Protect(off, n, allow)
	}
	v.snap.logger.LogProtect(off, n, allow, err)
	v.snap.metrics.RecordProtect(err)
	return err
}

func (v *View) validateRange(off, n int) error {
	size := v.snap.size
	if off < 0 || n <= 0 || off > size-n {
		return &RangeError{Off: off, Len: n, Size: size, cause: ErrOutOfBounds}
	}
	ps := vmem.PageSize()
	if off%ps != 0 || n%ps != 0 {
		return &RangeError{Off: off, Len: n, Size: size, cause: ErrMisalignedRange}
	}
	return nil
}

// TakeSnapshot freezes the current content of the view, including any
// changes made through it, into a new independent snapshot.
//
// The entire content is copied; for large views this can be slow.
func (v *View) TakeSnapshot(opts ...Option) (*Snapshot, error) {
	if v.closed.Load() {
		return nil, ErrClosed
	}
	if len(opts) == 0 {
		opts = []Option{WithLogger(v.snap.logger), WithMetrics(v.snap.metrics)}
	}
	return FromSlice(v.mapping.Bytes(), opts...)
}

// Close releases the view's mapping and the reference it holds on the
// snapshot. The snapshot's memory object is untouched unless this was the
// last reference keeping it alive. Close is idempotent.
func (v *View) Close() error {
	if v.closed.Swap(true) {
		return nil
	}
	err := v.mapping.Unmap()
	v.snap.unregister(v.mode)
	return err
}
