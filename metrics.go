package cbrw

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordAddObservations is called after each observation batch.
	// count is the number of records folded in, skipped the number of
	// malformed records dropped.
	RecordAddObservations(count, skipped int, duration time.Duration)

	// RecordFit is called after each fit.
	// iterations is the number of solver passes; converged reports whether
	// the tolerance was reached within the iteration cap.
	RecordFit(iterations int, converged bool, duration time.Duration)

	// RecordScore is called after each scoring batch.
	RecordScore(count int, duration time.Duration, err error)

	// RecordSnapshotSave is called after a snapshot export is written.
	RecordSnapshotSave(bytes int, duration time.Duration, err error)

	// RecordSnapshotLoad is called after a snapshot is restored.
	RecordSnapshotLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAddObservations(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordFit(int, bool, time.Duration)            {}
func (NoopMetricsCollector) RecordScore(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordSnapshotSave(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordSnapshotLoad(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ObservationCount   atomic.Int64
	ObservationSkipped atomic.Int64
	ObserveTotalNanos  atomic.Int64
	FitCount           atomic.Int64
	FitIterations      atomic.Int64
	FitNonConverged    atomic.Int64
	FitTotalNanos      atomic.Int64
	ScoreCount         atomic.Int64
	ScoreRecords       atomic.Int64
	ScoreErrors        atomic.Int64
	ScoreTotalNanos    atomic.Int64
	SnapshotSaves      atomic.Int64
	SnapshotSaveBytes  atomic.Int64
	SnapshotLoads      atomic.Int64
	SnapshotErrors     atomic.Int64
}

// RecordAddObservations implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAddObservations(count, skipped int, duration time.Duration) {
	b.ObservationCount.Add(int64(count))
	b.ObservationSkipped.Add(int64(skipped))
	b.ObserveTotalNanos.Add(duration.Nanoseconds())
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(iterations int, converged bool, duration time.Duration) {
	b.FitCount.Add(1)
	b.FitIterations.Add(int64(iterations))
	if !converged {
		b.FitNonConverged.Add(1)
	}
	b.FitTotalNanos.Add(duration.Nanoseconds())
}

// RecordScore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScore(count int, duration time.Duration, err error) {
	b.ScoreCount.Add(1)
	b.ScoreRecords.Add(int64(count))
	b.ScoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScoreErrors.Add(1)
	}
}

// RecordSnapshotSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotSave(bytes int, _ time.Duration, err error) {
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotSaves.Add(1)
	b.SnapshotSaveBytes.Add(int64(bytes))
}

// RecordSnapshotLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotLoad(_ time.Duration, err error) {
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotLoads.Add(1)
}
