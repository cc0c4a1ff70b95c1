// Package memsnap provides point-in-time memory snapshots with cheap
// restorable views, backed directly by the operating system's
// virtual-memory primitives.
//
// A Snapshot owns an OS memory object (anonymous or mirroring a file); a
// View maps that object into the process address space for byte access.
// Copy-on-write views keep their writes private and can be reverted to the
// snapshot baseline in place, which makes repeatedly restoring a guest's
// memory to a known state cheap: no bytes are copied, the kernel just
// drops the private pages.
//
// # Quick Start
//
//	snap, _ := memsnap.FromSlice(initialMemory)
//	defer snap.Close()
//
//	view, _ := snap.View() // copy-on-write
//	defer view.Close()
//
//	run(view.Bytes())  // guest scribbles over the memory
//	_ = view.Restore() // back to the baseline, same address
//	run(view.Bytes())  // clean run
//
// # View Kinds
//
//	view, _ := snap.View()       // copy-on-write, writes stay private
//	view, _ := snap.ViewMut()    // writes go through to the snapshot; exclusive
//	view, _ := snap.ViewShared() // copy-on-write, survives snap.Close()
//
// At most one mutable view may exist at a time, and never alongside
// copy-on-write views; violations fail with ErrSnapshotBusy at creation.
//
// # Page Protection
//
// Sub-ranges of a view can be restricted at page granularity:
//
//	_ = view.Protect(0, memsnap.PageSize(), memsnap.AccessRead)
//
// Access past the granted permissions faults; trapping and reporting the
// resulting signal or exception is the host's job, not this package's.
// Restore lifts all protections back to read+write.
//
// # Platform Support
//
//   - Linux: memfd_create(2) memory objects, mmap(2)/mprotect(2) views.
//   - Windows: CreateFileMapping objects, placeholder-based views via
//     VirtualAlloc2 and MapViewOfFile3.
package memsnap
