package memsnap

import (
	"os"
	"sync"

	"github.com/jprendes/memsnap/internal/vmem"
)

// Snapshot is a point-in-time block of memory content held in an OS memory
// object. The content is not directly accessible; obtain a View with one of:
//
//   - View: a copy-on-write view where changes do not affect the snapshot.
//   - ViewMut: a mutable view where changes are reflected in the snapshot.
//   - ViewShared: a copy-on-write view that keeps the snapshot's memory
//     object alive on its own, so it may outlive Close on the snapshot.
//
// A snapshot is never mutated in place: all writes happen through views of
// its memory object.
type Snapshot struct {
	mem  *vmem.Memory
	size int

	logger  *Logger
	metrics MetricsCollector

	mu       sync.Mutex
	refs     int // owner handle + live views; the memory object is released at zero
	closed   bool
	mutViews int
	cowViews int
}

// FromFile creates a snapshot mirroring the content of f.
// The snapshot takes ownership of f; its size is the file length rounded up
// to the next system page size.
//
// On Linux mutable views map the file itself, so their writes reach the
// file. The file must therefore be open for writing if ViewMut is used.
func FromFile(f *os.File, opts ...Option) (*Snapshot, error) {
	o := applyOptions(opts)
	mem, size, err := vmem.NewFileMemory(f)
	o.logger.LogSnapshot("file", size, err)
	o.metrics.RecordSnapshot(size, err)
	if err != nil {
		// Ownership of f was taken; don't leak it on failure.
		_ = f.Close()
		return nil, err
	}
	return newSnapshot(mem, size, o), nil
}

// Zeroed creates a snapshot with zeroed content of the given size.
// The actual snapshot size is rounded up to the next system page size.
func Zeroed(size int, opts ...Option) (*Snapshot, error) {
	o := applyOptions(opts)
	mem, size, err := vmem.NewAnonMemory(size)
	o.logger.LogSnapshot("zeroed", size, err)
	o.metrics.RecordSnapshot(size, err)
	if err != nil {
		return nil, err
	}
	return newSnapshot(mem, size, o), nil
}

// FromSlice creates a snapshot populated with the content of buf.
// The actual snapshot size is rounded up to the next system page size;
// bytes past len(buf) are zero.
func FromSlice(buf []byte, opts ...Option) (*Snapshot, error) {
	s, err := Zeroed(len(buf), opts...)
	if err != nil {
		return nil, err
	}
	v, err := s.ViewMut()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	copy(v.Bytes(), buf)
	_ = v.Close()
	return s, nil
}

func newSnapshot(mem *vmem.Memory, size int, o *options) *Snapshot {
	return &Snapshot{
		mem:     mem,
		size:    size,
		logger:  o.logger,
		metrics: o.metrics,
		refs:    1,
	}
}

// Size returns the snapshot size in bytes, always a multiple of the system
// page size. It is the upper bound of addressable bytes across all views.
func (s *Snapshot) Size() int {
	return s.size
}

// Clone creates an independent snapshot with the same content as s at the
// time of the call. Changes to either snapshot never affect the other.
//
// The entire content is copied; for large snapshots this can be slow.
func (s *Snapshot) Clone() (*Snapshot, error) {
	v, err := s.View()
	if err != nil {
		return nil, err
	}
	defer v.Close()
	return FromSlice(v.Bytes(), WithLogger(s.logger), WithMetrics(s.metrics))
}

// View creates a copy-on-write view into the content of the snapshot.
// Writes through the view never reach the snapshot or sibling views.
// Any number of copy-on-write views may coexist.
func (s *Snapshot) View() (*View, error) {
	return s.newView(ModeCow)
}

// ViewMut creates a mutable view into the content of the snapshot.
// Writes through the view go straight to the snapshot's memory object and
// are visible to every later view.
//
// The view requires exclusive access: ViewMut fails with ErrSnapshotBusy
// while any other view of s is open, and other view constructors fail while
// the mutable view is open.
func (s *Snapshot) ViewMut() (*View, error) {
	return s.newView(ModeMutable)
}

// ViewShared creates a copy-on-write view that holds its own reference on
// the snapshot's memory object: the view stays readable after Close is
// called on the snapshot. It behaves like View in every other respect.
func (s *Snapshot) ViewShared() (*View, error) {
	return s.newView(ModeCow)
}

func (s *Snapshot) newView(mode ViewMode) (*View, error) {
	if err := s.register(mode); err != nil {
		s.logger.LogViewCreate(mode, s.size, err)
		s.metrics.RecordViewCreate(mode, err)
		return nil, err
	}
	m, err := vmem.NewMapping(s.mem, s.size, mode)
	s.logger.LogViewCreate(mode, s.size, err)
	s.metrics.RecordViewCreate(mode, err)
	if err != nil {
		s.unregister(mode)
		return nil, err
	}
	return &View{snap: s, mapping: m, mode: mode}, nil
}

// register accounts for a view about to be created, enforcing the aliasing
// discipline: one mutable view at most, never mixed with cow views.
func (s *Snapshot) register(mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.mutViews > 0 {
		return ErrSnapshotBusy
	}
	if mode == ModeMutable {
		if s.cowViews > 0 {
			return ErrSnapshotBusy
		}
		s.mutViews++
	} else {
		s.cowViews++
	}
	s.refs++
	return nil
}

func (s *Snapshot) unregister(mode ViewMode) {
	s.mu.Lock()
	if mode == ModeMutable {
		s.mutViews--
	} else {
		s.cowViews--
	}
	s.refs--
	last := s.refs == 0
	s.mu.Unlock()
	if last {
		// Teardown must not fail from the caller's perspective.
		_ = s.mem.Close()
	}
}

// Close drops the snapshot's own reference on its memory object and
// prevents new views. The object itself is released once the last open
// view is also closed. Close is idempotent.
func (s *Snapshot) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.refs--
	last := s.refs == 0
	s.mu.Unlock()
	if last {
		return s.mem.Close()
	}
	return nil
}

// PageSize returns the system page size in bytes. This is the granularity
// at which snapshot sizes are rounded and protection ranges are aligned.
func PageSize() int {
	return vmem.PageSize()
}
