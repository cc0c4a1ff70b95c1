//go:build linux

package vmem

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Memory is an OS memory object backed by a file descriptor: either a
// regular file or an anonymous memfd.
type Memory struct {
	f *os.File
}

// NewFileMemory wraps an open file as a memory object mirroring its content.
// It takes ownership of f and returns the file length rounded up to the
// page size.
func NewFileMemory(f *os.File) (*Memory, int, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	size := RoundToPageSize(int(fi.Size()))
	return &Memory{f: f}, size, nil
}

// NewAnonMemory creates a zero-filled anonymous memory object of at least
// size bytes, rounded up to the page size.
func NewAnonMemory(size int) (*Memory, int, error) {
	size = RoundToPageSize(size)
	fd, err := unix.MemfdCreate("memsnap", 0)
	if err != nil {
		return nil, 0, os.NewSyscallError("memfd_create", err)
	}
	f := os.NewFile(uintptr(fd), "memsnap")
	if err := f.Truncate(int64(effectiveSize(size))); err != nil {
		f.Close()
		return nil, 0, err
	}
	return &Memory{f: f}, size, nil
}

// Close releases the memory object. Mappings of it stay valid until they
// are unmapped; the kernel keeps the backing pages alive per mapping.
func (m *Memory) Close() error {
	return m.f.Close()
}

func (m *Memory) fd() int {
	return int(m.f.Fd())
}

func (m Mode) mapFlags() int {
	if m == ModeMutable {
		return unix.MAP_SHARED
	}
	return unix.MAP_PRIVATE
}

// NewMapping maps mem into a fresh range of address space with read+write
// protection. MAP_NORESERVE avoids eagerly reserving swap for the range.
func NewMapping(mem *Memory, size int, mode Mode) (*Mapping, error) {
	addr, err := unix.MmapPtr(mem.fd(), 0, nil, uintptr(effectiveSize(size)),
		unix.PROT_READ|unix.PROT_WRITE, mode.mapFlags()|unix.MAP_NORESERVE)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return &Mapping{mem: mem, addr: addr, size: size, mode: mode}, nil
}

// Remap replaces the mapping's content with the memory object's baseline,
// keeping the base address. MAP_FIXED atomically swaps the range, so no
// other allocation can steal the address in between.
func (m *Mapping) Remap() error {
	_, err := unix.MmapPtr(m.mem.fd(), 0, m.addr, uintptr(effectiveSize(m.size)),
		unix.PROT_READ|unix.PROT_WRITE,
		m.mode.mapFlags()|unix.MAP_NORESERVE|unix.MAP_FIXED)
	if err != nil {
		return os.NewSyscallError("mmap", err)
	}
	return nil
}

// Protect applies allow to the sub-range [off, off+n) of the mapping.
// The caller has already validated alignment and bounds.
func (m *Mapping) Protect(off, n int, allow Access) error {
	b := unsafe.Slice((*byte)(unsafe.Add(m.addr, off)), n)
	if err := unix.Mprotect(b, allow.prot()); err != nil {
		return os.NewSyscallError("mprotect", err)
	}
	return nil
}

// Unmap releases the mapping. It is idempotent.
func (m *Mapping) Unmap() error {
	if m.unmapped.Swap(true) {
		return nil
	}
	return unix.MunmapPtr(m.addr, uintptr(effectiveSize(m.size)))
}

func (a Access) prot() int {
	if a == AccessNone {
		return unix.PROT_NONE
	}
	var prot int
	if a&AccessRead != 0 {
		prot |= unix.PROT_READ
	}
	if a&AccessWrite != 0 {
		prot |= unix.PROT_READ | unix.PROT_WRITE
	}
	if a&AccessExec != 0 {
		prot |= unix.PROT_EXEC
	}
	return prot
}
