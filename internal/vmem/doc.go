// Package vmem implements the platform virtual-memory backend for snapshots.
//
// # Overview
//
// The package exposes a narrow contract over the operating system's
// memory-object and page-mapping primitives:
//
//   - Memory: an OS memory object, either mirroring an open file or
//     anonymous zero-filled storage.
//   - Mapping: a live mapping of a Memory object into the process address
//     space, created in copy-on-write or shared mode, with in-place remap
//     ("restore") and page-protection support.
//
// # Usage
//
//	mem, size, err := vmem.NewAnonMemory(n)
//	if err != nil { ... }
//	defer mem.Close()
//
//	m, err := vmem.NewMapping(mem, size, vmem.ModeCow)
//	if err != nil { ... }
//	defer m.Unmap()
//
//	// Byte access to the mapped range
//	data := m.Bytes()
//
//	// Discard writes, keeping the base address
//	err = m.Remap()
//
// # Platform Support
//
//   - Linux: memfd_create(2) memory objects, mmap(2) with MAP_PRIVATE or
//     MAP_SHARED (MAP_FIXED for remap), mprotect(2).
//   - Windows: CreateFileMapping objects, placeholder reservations via
//     VirtualAlloc2 replaced with MapViewOfFile3, VirtualProtect. Restore
//     preserves the placeholder with UnmapViewOfFileEx so the address range
//     cannot be claimed by another allocation between unmap and remap.
//
// # Thread Safety
//
// Memory and Mapping methods are individually safe to call from any
// goroutine; Unmap is idempotent and protected by atomic operations.
// Concurrent access to the bytes of a shared mapping is the caller's
// responsibility, exactly as with any raw shared memory.
package vmem
