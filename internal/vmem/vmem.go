package vmem

import (
	"errors"
	"os"
	"sync/atomic"
	"unsafe"
)

// Access is a bit set of page permissions.
type Access uint8

const (
	// AccessNone forbids reads, writes and execution. It is a distinct
	// protection state, not merely the absence of bits: platforms require an
	// explicit no-access constant.
	AccessNone Access = 0
	// AccessRead allows reads.
	AccessRead Access = 1 << 0
	// AccessWrite allows writes. Write access always implies read access;
	// no platform offers a write-only protection mode.
	AccessWrite Access = 1 << 1
	// AccessExec allows instruction fetch.
	AccessExec Access = 1 << 2
)

// String renders the flag set in ls-style notation, e.g. "rw-" or "none".
func (a Access) String() string {
	if a == AccessNone {
		return "none"
	}
	b := []byte("---")
	if a&AccessRead != 0 {
		b[0] = 'r'
	}
	if a&AccessWrite != 0 {
		b[1] = 'w'
	}
	if a&AccessExec != 0 {
		b[2] = 'x'
	}
	return string(b)
}

// Mode selects how writes through a mapping relate to its memory object.
type Mode int

const (
	// ModeCow maps the object privately: writes are copy-on-write and never
	// reach the object or other mappings of it.
	ModeCow Mode = iota
	// ModeMutable maps the object shared: writes go straight to the object
	// and are visible through every other shared mapping of it.
	ModeMutable
)

func (m Mode) String() string {
	if m == ModeMutable {
		return "mutable"
	}
	return "cow"
}

// ErrAddressMoved is returned when the OS maps a view at an address other
// than the one reserved for it. Address stability is a hard contract; a
// mapping that moved is never handed to the caller.
var ErrAddressMoved = errors.New("vmem: mapping relocated from its reserved address")

// Mapping is a live mapping of a Memory object into the address space.
// It holds a non-owning reference to the object; unmapping never releases
// the object itself.
type Mapping struct {
	mem      *Memory
	addr     unsafe.Pointer
	size     int
	mode     Mode
	unmapped atomic.Bool
}

// Bytes returns the mapped byte range.
// The slice is valid only until Unmap is called.
func (m *Mapping) Bytes() []byte {
	if m.unmapped.Load() {
		return nil
	}
	return unsafe.Slice((*byte)(m.addr), m.size)
}

// Addr returns the base address of the mapping. It is stable across Remap.
func (m *Mapping) Addr() uintptr {
	return uintptr(m.addr)
}

// Size returns the mapped size in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Mode returns the mapping mode.
func (m *Mapping) Mode() Mode {
	return m.mode
}

// PageSize returns the OS page granularity in bytes.
func PageSize() int {
	return os.Getpagesize()
}

// RoundToPageSize rounds n up to the next multiple of the page size.
func RoundToPageSize(n int) int {
	ps := PageSize()
	return (n + ps - 1) / ps * ps
}

// effectiveSize is the number of bytes actually reserved for a mapping of a
// page-rounded content size. The one-page floor keeps zero-length snapshots
// mappable: mmap and CreateFileMapping both reject a length of zero.
func effectiveSize(size int) int {
	if size == 0 {
		return PageSize()
	}
	return size
}
