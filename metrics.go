package idset

import (
	"sync/atomic"
	"time"
)

// DegradeReason names a data fault that was folded into a value instead of
// being reported as an error.
type DegradeReason string

const (
	// DegradedMalformedBlob: a blob operand did not decode and was treated as the empty set.
	DegradedMalformedBlob DegradeReason = "malformed_blob"
	// DegradedUnnormalizable: text did not normalize and produced identifier 0.
	DegradedUnnormalizable DegradeReason = "unnormalizable_text"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    calls    *prometheus.CounterVec
//	    degraded *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordDegraded(function string, reason idset.DegradeReason) {
//	    p.degraded.WithLabelValues(function, string(reason)).Inc()
//	}
type MetricsCollector interface {
	// RecordCall is called after each scalar function call.
	// rows is the batch size, err is nil if successful.
	RecordCall(function string, rows int, duration time.Duration, err error)

	// RecordAggregate is called after each grouped aggregate.
	RecordAggregate(function string, rows, groups int, duration time.Duration, err error)

	// RecordDegraded is called once per row value affected by a data fault.
	RecordDegraded(function string, reason DegradeReason)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCall(string, int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordAggregate(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDegraded(string, DegradeReason)                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CallCount           atomic.Int64
	CallErrors          atomic.Int64
	CallRows            atomic.Int64
	CallTotalNanos      atomic.Int64
	AggregateCount      atomic.Int64
	AggregateErrors     atomic.Int64
	AggregateRows       atomic.Int64
	AggregateGroups     atomic.Int64
	AggregateTotalNanos atomic.Int64
	MalformedBlobs      atomic.Int64
	UnnormalizableText  atomic.Int64
}

// RecordCall implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCall(function string, rows int, duration time.Duration, err error) {
	b.CallCount.Add(1)
	b.CallRows.Add(int64(rows))
	b.CallTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CallErrors.Add(1)
	}
}

// RecordAggregate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAggregate(function string, rows, groups int, duration time.Duration, err error) {
	b.AggregateCount.Add(1)
	b.AggregateRows.Add(int64(rows))
	b.AggregateGroups.Add(int64(groups))
	b.AggregateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AggregateErrors.Add(1)
	}
}

// RecordDegraded implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDegraded(function string, reason DegradeReason) {
	switch reason {
	case DegradedMalformedBlob:
		b.MalformedBlobs.Add(1)
	case DegradedUnnormalizable:
		b.UnnormalizableText.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CallCount:          b.CallCount.Load(),
		CallErrors:         b.CallErrors.Load(),
		CallRows:           b.CallRows.Load(),
		CallAvgNanos:       avg(b.CallTotalNanos.Load(), b.CallCount.Load()),
		AggregateCount:     b.AggregateCount.Load(),
		AggregateErrors:    b.AggregateErrors.Load(),
		AggregateRows:      b.AggregateRows.Load(),
		AggregateGroups:    b.AggregateGroups.Load(),
		AggregateAvgNanos:  avg(b.AggregateTotalNanos.Load(), b.AggregateCount.Load()),
		MalformedBlobs:     b.MalformedBlobs.Load(),
		UnnormalizableText: b.UnnormalizableText.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CallCount          int64
	CallErrors         int64
	CallRows           int64
	CallAvgNanos       int64
	AggregateCount     int64
	AggregateErrors    int64
	AggregateRows      int64
	AggregateGroups    int64
	AggregateAvgNanos  int64
	MalformedBlobs     int64
	UnnormalizableText int64
}
