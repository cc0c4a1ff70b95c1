//go:build windows

package vmem

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Placeholder allocation flags not exported by x/sys/windows.
const (
	memReservePlaceholder  = 0x00040000 // MEM_RESERVE_PLACEHOLDER
	memReplacePlaceholder  = 0x00004000 // MEM_REPLACE_PLACEHOLDER
	memPreservePlaceholder = 0x00000002 // MEM_PRESERVE_PLACEHOLDER
)

// VirtualAlloc2 and MapViewOfFile3 are not wrapped by x/sys/windows.
var (
	kernelbase            = windows.NewLazySystemDLL("kernelbase.dll")
	procVirtualAlloc2     = kernelbase.NewProc("VirtualAlloc2")
	procMapViewOfFile3    = kernelbase.NewProc("MapViewOfFile3")
	procUnmapViewOfFileEx = kernelbase.NewProc("UnmapViewOfFileEx")
)

// Memory is an OS memory object backed by a file-mapping handle, created
// over a regular file or over the paging file for anonymous storage.
type Memory struct {
	handle windows.Handle
	f      *os.File // backing file, if any; kept open for the handle's lifetime
}

// NewFileMemory creates a memory object mirroring the content of f.
// It takes ownership of f and returns the file length rounded up to the
// page size.
func NewFileMemory(f *os.File) (*Memory, int, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	size := RoundToPageSize(int(fi.Size()))
	h, err := newMappingObject(windows.Handle(f.Fd()), effectiveSize(size))
	if err != nil {
		return nil, 0, err
	}
	return &Memory{handle: h, f: f}, size, nil
}

// NewAnonMemory creates a zero-filled anonymous memory object of at least
// size bytes, rounded up to the page size.
func NewAnonMemory(size int) (*Memory, int, error) {
	size = RoundToPageSize(size)
	h, err := newMappingObject(windows.InvalidHandle, effectiveSize(size))
	if err != nil {
		return nil, 0, err
	}
	return &Memory{handle: h}, size, nil
}

// newMappingObject creates the file-mapping object all views are carved
// from. PAGE_EXECUTE_READWRITE keeps every later protection of a view,
// including execute, compatible with the object.
func newMappingObject(file windows.Handle, size int) (windows.Handle, error) {
	// The 64-bit size is split into halves for the CreateFileMapping ABI.
	high := uint32(uint64(size) >> 32)
	low := uint32(uint64(size) & 0xFFFFFFFF)
	h, err := windows.CreateFileMapping(file, nil, windows.PAGE_EXECUTE_READWRITE, high, low, nil)
	if err != nil {
		return 0, os.NewSyscallError("CreateFileMapping", err)
	}
	return h, nil
}

// Close releases the memory object. Live views keep the underlying section
// alive through their own references.
func (m *Memory) Close() error {
	err := windows.CloseHandle(m.handle)
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (m Mode) pageProtection() uint32 {
	if m == ModeMutable {
		return windows.PAGE_READWRITE
	}
	return windows.PAGE_WRITECOPY
}

// NewMapping maps mem into a fresh range of address space. The range is
// first reserved as a placeholder so the subsequent MapViewOfFile3 lands at
// a known address; a view that comes back anywhere else is an error.
func NewMapping(mem *Memory, size int, mode Mode) (*Mapping, error) {
	esize := uintptr(effectiveSize(size))
	placeholder, _, err := procVirtualAlloc2.Call(
		0, // current process
		0, // let the OS pick the address
		esize,
		uintptr(windows.MEM_RESERVE|memReservePlaceholder),
		uintptr(windows.PAGE_NOACCESS),
		0, 0,
	)
	if placeholder == 0 {
		return nil, os.NewSyscallError("VirtualAlloc2", err)
	}
	addr, _, err := procMapViewOfFile3.Call(
		uintptr(mem.handle),
		0, // current process
		placeholder,
		0, // offset
		esize,
		memReplacePlaceholder,
		uintptr(mode.pageProtection()),
		0, 0,
	)
	if addr == 0 {
		return nil, os.NewSyscallError("MapViewOfFile3", err)
	}
	if addr != placeholder {
		_ = windows.UnmapViewOfFile(addr)
		return nil, ErrAddressMoved
	}
	return &Mapping{
		mem:  mem,
		addr: unsafe.Pointer(addr),
		size: size,
		mode: mode,
	}, nil
}

// Remap replaces the mapping's content with the memory object's baseline,
// keeping the base address. The unmap preserves the placeholder reservation
// so nothing else can claim the range before the new view replaces it.
func (m *Mapping) Remap() error {
	r1, _, err := procUnmapViewOfFileEx.Call(uintptr(m.addr), memPreservePlaceholder)
	if r1 == 0 {
		return os.NewSyscallError("UnmapViewOfFileEx", err)
	}
	addr, _, err := procMapViewOfFile3.Call(
		uintptr(m.mem.handle),
		0,
		uintptr(m.addr),
		0,
		uintptr(effectiveSize(m.size)),
		memReplacePlaceholder,
		uintptr(m.mode.pageProtection()),
		0, 0,
	)
	if addr == 0 {
		return os.NewSyscallError("MapViewOfFile3", err)
	}
	if addr != uintptr(m.addr) {
		return ErrAddressMoved
	}
	return nil
}

// Protect applies allow to the sub-range [off, off+n) of the mapping.
// The caller has already validated alignment and bounds.
func (m *Mapping) Protect(off, n int, allow Access) error {
	var old uint32
	err := windows.VirtualProtect(uintptr(m.addr)+uintptr(off), uintptr(n),
		allow.pageProtection(m.mode), &old)
	if err != nil {
		return os.NewSyscallError("VirtualProtect", err)
	}
	return nil
}

// Unmap releases the mapping, placeholder included. It is idempotent.
func (m *Mapping) Unmap() error {
	if m.unmapped.Swap(true) {
		return nil
	}
	return windows.UnmapViewOfFile(uintptr(m.addr))
}

// pageProtection translates the flag set for VirtualProtect. Cow mappings
// use the write-copy protection family so that writable pages still
// copy-on-write instead of writing through to the section.
func (a Access) pageProtection(mode Mode) uint32 {
	if a == AccessNone {
		return windows.PAGE_NOACCESS
	}
	r := a&AccessRead != 0
	w := a&AccessWrite != 0
	x := a&AccessExec != 0
	mutable := mode == ModeMutable
	switch {
	case w && x && mutable:
		return windows.PAGE_EXECUTE_READWRITE
	case w && x:
		return windows.PAGE_EXECUTE_WRITECOPY
	case r && x:
		return windows.PAGE_EXECUTE_READ
	case x:
		return windows.PAGE_EXECUTE
	case w && mutable:
		return windows.PAGE_READWRITE
	case w:
		return windows.PAGE_WRITECOPY
	case r:
		return windows.PAGE_READONLY
	default:
		return windows.PAGE_NOACCESS
	}
}
