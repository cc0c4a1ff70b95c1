package memsnap

import "github.com/jprendes/memsnap/internal/vmem"

// Access is a bit set of page permissions used by View.Protect.
// Flags combine with bitwise OR, e.g. AccessRead|AccessExec.
type Access = vmem.Access

const (
	// AccessNone forbids reads, writes and execution.
	AccessNone = vmem.AccessNone
	// AccessRead allows reads.
	AccessRead = vmem.AccessRead
	// AccessWrite allows writes. Write access always implies read access;
	// no platform offers a write-only protection mode.
	AccessWrite = vmem.AccessWrite
	// AccessExec allows instruction fetch.
	AccessExec = vmem.AccessExec
)

// ViewMode selects how writes through a view relate to its snapshot.
type ViewMode = vmem.Mode

const (
	// ModeCow gives the view a private copy-on-write mapping: writes stay
	// local to the view and never reach the snapshot or sibling views.
	ModeCow = vmem.ModeCow
	// ModeMutable gives the view a shared mapping: writes go straight to
	// the snapshot's memory object.
	ModeMutable = vmem.ModeMutable
)
