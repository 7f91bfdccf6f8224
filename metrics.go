package geoshard

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// observability package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordSchemeBuild is called after each partition scheme computation.
	RecordSchemeBuild(strategy string, partitions int, duration time.Duration, err error)

	// RecordIndexBuild is called after each BuildIndex call. failed is the
	// number of partitions whose build failed.
	RecordIndexBuild(kind string, partitions, failed int, duration time.Duration)

	// RecordQuery is called after each range or nearest-neighbour query.
	// probed is the number of partitions whose index was searched.
	RecordQuery(op string, probed, results int, duration time.Duration, err error)

	// RecordJoin is called after each spatial join.
	RecordJoin(predicate string, partitionPairs, results int, duration time.Duration, err error)

	// RecordPredicateError is called for each join pair excluded because
	// its predicate returned an error.
	RecordPredicateError(predicate string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSchemeBuild(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordIndexBuild(string, int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordQuery(string, int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordJoin(string, int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordPredicateError(string)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SchemeBuilds     atomic.Int64
	SchemeErrors     atomic.Int64
	IndexBuilds      atomic.Int64
	PartitionsBuilt  atomic.Int64
	PartitionsFailed atomic.Int64
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryTotalNanos  atomic.Int64
	PartitionsProbed atomic.Int64
	JoinCount        atomic.Int64
	JoinErrors       atomic.Int64
	JoinResults      atomic.Int64
	PredicateErrors  atomic.Int64
}

// RecordSchemeBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSchemeBuild(strategy string, partitions int, duration time.Duration, err error) {
	b.SchemeBuilds.Add(1)
	if err != nil {
		b.SchemeErrors.Add(1)
	}
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(kind string, partitions, failed int, duration time.Duration) {
	b.IndexBuilds.Add(1)
	b.PartitionsBuilt.Add(int64(partitions - failed))
	b.PartitionsFailed.Add(int64(failed))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(op string, probed, results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	b.PartitionsProbed.Add(int64(probed))
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordJoin implements MetricsCollector.
func (b *BasicMetricsCollector) RecordJoin(predicate string, partitionPairs, results int, duration time.Duration, err error) {
	b.JoinCount.Add(1)
	b.JoinResults.Add(int64(results))
	if err != nil {
		b.JoinErrors.Add(1)
	}
}

// RecordPredicateError implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredicateError(predicate string) {
	b.PredicateErrors.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SchemeBuilds:     b.SchemeBuilds.Load(),
		SchemeErrors:     b.SchemeErrors.Load(),
		IndexBuilds:      b.IndexBuilds.Load(),
		PartitionsBuilt:  b.PartitionsBuilt.Load(),
		PartitionsFailed: b.PartitionsFailed.Load(),
		QueryCount:       b.QueryCount.Load(),
		QueryErrors:      b.QueryErrors.Load(),
		QueryAvgNanos:    b.getAvgQueryNanos(),
		PartitionsProbed: b.PartitionsProbed.Load(),
		JoinCount:        b.JoinCount.Load(),
		JoinErrors:       b.JoinErrors.Load(),
		JoinResults:      b.JoinResults.Load(),
		PredicateErrors:  b.PredicateErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SchemeBuilds     int64
	SchemeErrors     int64
	IndexBuilds      int64
	PartitionsBuilt  int64
	PartitionsFailed int64
	QueryCount       int64
	QueryErrors      int64
	QueryAvgNanos    int64
	PartitionsProbed int64
	JoinCount        int64
	JoinErrors       int64
	JoinResults      int64
	PredicateErrors  int64
}
