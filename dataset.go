package geoshard

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/index"
	"github.com/hupe1980/geoshard/internal/bitmap"
	"github.com/hupe1980/geoshard/partition"
)

// State is a stage of the dataset lifecycle.
type State uint8

const (
	StateRaw State = iota + 1
	StateSampled
	StatePartitioned
	StateIndexed
	StateQueryable
	StateClosed
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateSampled:
		return "sampled"
	case StatePartitioned:
		return "partitioned"
	case StateIndexed:
		return "indexed"
	case StateQueryable:
		return "queryable"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Dataset is an immutable, validated set of records: the Raw state.
type Dataset struct {
	version uint64
	records []geom.Record
	byID    map[uint64]int
	extent  geom.Envelope
}

// Version identifies the dataset within its engine.
func (d *Dataset) Version() uint64 { return d.version }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Extent returns the envelope of all records.
func (d *Dataset) Extent() geom.Envelope { return d.extent }

// State returns StateRaw.
func (d *Dataset) State() State { return StateRaw }

// Records returns a copy of the records in insertion order.
func (d *Dataset) Records() []geom.Record {
	return append([]geom.Record(nil), d.records...)
}

// Record returns the record with the given id.
func (d *Dataset) Record(id uint64) (geom.Record, bool) {
	i, ok := d.byID[id]
	if !ok {
		return geom.Record{}, false
	}
	return d.records[i], true
}

func (d *Dataset) geometry(id uint64) geom.Geometry {
	return d.records[d.byID[id]].Geometry
}

// Sample is a uniform random subset of a dataset: the Sampled state.
type Sample struct {
	dataset *Dataset
	records []geom.Record
}

// Dataset returns the sampled dataset.
func (s *Sample) Dataset() *Dataset { return s.dataset }

// Len returns the sample size.
func (s *Sample) Len() int { return len(s.records) }

// Records returns a copy of the sampled records.
func (s *Sample) Records() []geom.Record {
	return append([]geom.Record(nil), s.records...)
}

// State returns StateSampled.
func (s *Sample) State() State { return StateSampled }

// partitionIndex is the build output of one partition.
type partitionIndex struct {
	id        int
	boundary  geom.Envelope
	effective geom.Envelope
	entries   int
	owned     int
	memory    int64
	index     *index.Index
	err       error
}

// PartitionStats describes one partition of an IndexedDataset.
type PartitionStats struct {
	ID int
	// Boundary is the boundary assigned by the partition scheme.
	Boundary geom.Envelope
	// Effective is Boundary extended by the envelopes of the records
	// indexed in the partition. Queries prune against it.
	Effective geom.Envelope
	// Records counts indexed records, including replicas.
	Records int
	// Owned counts records this partition owns under Scheme.Owner.
	Owned int
	// Err is the build failure, nil for a queryable partition.
	Err error
}

// IndexedDataset is a dataset version with one built index per partition:
// the Queryable state. It is read-only and safe for concurrent queries.
type IndexedDataset struct {
	dataset *Dataset
	scheme  *partition.Scheme
	kind    index.Kind
	parts   []*partitionIndex
	lookup  *index.Index
	release func(int64)
	closed  atomic.Bool
}

// Dataset returns the indexed dataset.
func (ix *IndexedDataset) Dataset() *Dataset { return ix.dataset }

// Scheme returns the partition scheme the indexes were built for.
func (ix *IndexedDataset) Scheme() *partition.Scheme { return ix.scheme }

// Kind returns the index structure used by every partition.
func (ix *IndexedDataset) Kind() index.Kind { return ix.kind }

// Len returns the number of partitions.
func (ix *IndexedDataset) Len() int { return len(ix.parts) }

// State returns StateQueryable, or StateClosed after Close.
func (ix *IndexedDataset) State() State {
	if ix.closed.Load() {
		return StateClosed
	}
	return StateQueryable
}

// Partitions returns per-partition statistics in partition order.
func (ix *IndexedDataset) Partitions() []PartitionStats {
	stats := make([]PartitionStats, len(ix.parts))
	for i, p := range ix.parts {
		stats[i] = PartitionStats{
			ID:        p.id,
			Boundary:  p.boundary,
			Effective: p.effective,
			Records:   p.entries,
			Owned:     p.owned,
			Err:       p.err,
		}
	}
	return stats
}

// Close releases the memory reserved for the indexes. Queries started
// before Close finish against their snapshot; later queries fail with
// ErrNotQueryable. Close is idempotent.
func (ix *IndexedDataset) Close() error {
	if !ix.closed.CompareAndSwap(false, true) {
		return nil
	}
	var total int64
	for _, p := range ix.parts {
		total += p.memory
	}
	ix.release(total)
	return nil
}

// candidates returns the partitions whose effective boundary intersects
// window, in ascending order. It fails if one of them did not build.
func (ix *IndexedDataset) candidates(window geom.Envelope) ([]*partitionIndex, error) {
	var out []*partitionIndex
	err := ix.lookup.Search(window, func(id uint64) bool {
		out = append(out, ix.parts[id])
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	for _, p := range out {
		if err := p.check(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (ix *IndexedDataset) checkQueryable() error {
	if ix == nil {
		return ErrNotQueryable
	}
	if ix.closed.Load() {
		return fmt.Errorf("%w: dataset closed", ErrNotQueryable)
	}
	return nil
}

func (p *partitionIndex) check() error {
	if p.err != nil {
		return fmt.Errorf("%w: partition %d: %w", ErrNotQueryable, p.id, p.err)
	}
	return nil
}

// ids collects the ids of every record indexed in p.
func (p *partitionIndex) ids() (*bitmap.IDSet, error) {
	set := bitmap.NewIDSet()
	err := p.index.Search(p.effective, func(id uint64) bool {
		set.Add(id)
		return true
	})
	return set, err
}
