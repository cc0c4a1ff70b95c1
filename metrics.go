package memsnap

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    restoreCounter   prometheus.Counter
//	    restoreHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRestore(duration time.Duration, err error) {
//	    p.restoreCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordSnapshot is called after each snapshot construction.
	// size is the page-rounded snapshot size, err is nil if successful.
	RecordSnapshot(size int, err error)

	// RecordViewCreate is called after each view creation attempt.
	RecordViewCreate(mode ViewMode, err error)

	// RecordRestore is called after each view restore.
	// duration is the time taken by the remap, err is nil if successful.
	RecordRestore(duration time.Duration, err error)

	// RecordProtect is called after each page-protection change,
	// including attempts rejected by range validation.
	RecordProtect(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSnapshot(int, error) {}

func (NoopMetricsCollector) RecordViewCreate(ViewMode, error) {}

func (NoopMetricsCollector) RecordRestore(time.Duration, error) {}

func (NoopMetricsCollector) RecordProtect(error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SnapshotCount     atomic.Int64
	SnapshotErrors    atomic.Int64
	SnapshotBytes     atomic.Int64
	ViewCount         atomic.Int64
	ViewErrors        atomic.Int64
	MutableViewCount  atomic.Int64
	RestoreCount      atomic.Int64
	RestoreErrors     atomic.Int64
	RestoreTotalNanos atomic.Int64
	ProtectCount      atomic.Int64
	ProtectErrors     atomic.Int64
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(size int, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(int64(size))
}

// RecordViewCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordViewCreate(mode ViewMode, err error) {
	b.ViewCount.Add(1)
	if mode == ModeMutable {
		b.MutableViewCount.Add(1)
	}
	if err != nil {
		b.ViewErrors.Add(1)
	}
}

// RecordRestore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestore(duration time.Duration, err error) {
	b.RestoreCount.Add(1)
	b.RestoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RestoreErrors.Add(1)
	}
}

// RecordProtect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProtect(err error) {
	b.ProtectCount.Add(1)
	if err != nil {
		b.ProtectErrors.Add(1)
	}
}

// AvgRestoreNanos returns the mean restore latency in nanoseconds.
func (b *BasicMetricsCollector) AvgRestoreNanos() int64 {
	count := b.RestoreCount.Load()
	if count == 0 {
		return 0
	}
	return b.RestoreTotalNanos.Load() / count
}
