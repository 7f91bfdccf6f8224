package geoshard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/index"
	"github.com/hupe1980/geoshard/internal/bitmap"
)

// Result is a record matched by a query.
type Result struct {
	RecordID uint64
	Geometry geom.Geometry
}

// ResultSet is a duplicate-free set of query results ordered by record id.
type ResultSet struct {
	results []Result
	ids     *bitmap.IDSet
}

func newResultSet(d *Dataset, local [][]uint64) *ResultSet {
	ids := bitmap.NewIDSet()
	for _, hits := range local {
		for _, id := range hits {
			ids.Add(id)
		}
	}
	results := make([]Result, 0, ids.Len())
	for id := range ids.All() {
		results = append(results, Result{RecordID: id, Geometry: d.geometry(id)})
	}
	return &ResultSet{results: results, ids: ids}
}

// Len returns the number of results.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.results)
}

// IDs returns the record ids in ascending order.
func (rs *ResultSet) IDs() []uint64 {
	if rs == nil {
		return nil
	}
	return rs.ids.ToSlice()
}

// Results returns a copy of the results.
func (rs *ResultSet) Results() []Result {
	if rs == nil {
		return nil
	}
	return append([]Result(nil), rs.results...)
}

// Contains reports whether the record with the given id matched.
func (rs *ResultSet) Contains(id uint64) bool {
	return rs != nil && rs.ids.Contains(id)
}

// Neighbor is a k-nearest-neighbour result.
type Neighbor struct {
	RecordID uint64
	Geometry geom.Geometry
	Distance float64
}

// probe runs fn once per task through the executor, each under a probe slot
// of the resource controller. The first failing task cancels the rest and
// its error is returned; cancellation of ctx takes precedence.
func (e *Engine) probe(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	err := e.executor.Map(probeCtx, n, func(ctx context.Context, i int) error {
		release, err := e.resources.AcquireProbe(ctx)
		if err == nil {
			err = fn(ctx, i)
			release()
		}
		if err != nil && probeCtx.Err() == nil {
			once.Do(func() {
				firstErr = err
				cancel()
			})
		}
		return err
	})

	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if firstErr != nil {
		return firstErr
	}
	return err
}

func (e *Engine) observeQuery(ctx context.Context, ds *IndexedDataset, op string, start time.Time, probed, results int, err error) {
	e.logger.WithDataset(ds.dataset.version).LogQuery(ctx, op, probed, results, err)
	e.metrics.RecordQuery(op, probed, results, time.Since(start), err)
}

// RangeQuery returns every record of ds whose geometry intersects window,
// or with WithContainedOnly every record window fully contains.
//
// Partitions are pruned by their effective boundary, the retained indexes
// are probed through the executor and candidates are checked against the
// exact geometry. Each record appears once however many partitions hold a
// replica. The result does not depend on the scheme, the index kind or the
// executor.
func (e *Engine) RangeQuery(ctx context.Context, ds *IndexedDataset, window geom.Geometry, optFns ...QueryOption) (rs *ResultSet, err error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if err := ds.checkQueryable(); err != nil {
		return nil, err
	}
	if !window.IsValid() {
		return nil, fmt.Errorf("%w: query window", ErrInvalidGeometry)
	}

	opts := applyQueryOptions(optFns)
	match := geom.Intersects
	if opts.containedOnly {
		match = func(g, w geom.Geometry) bool { return geom.Contains(w, g) }
	}

	start := time.Now()
	var probed int
	defer func() { e.observeQuery(ctx, ds, "range_query", start, probed, rs.Len(), err) }()

	env := window.Envelope()
	parts, err := ds.candidates(env)
	if err != nil {
		return nil, err
	}
	probed = len(parts)

	local := make([][]uint64, len(parts))
	err = e.probe(ctx, len(parts), func(_ context.Context, i int) error {
		var hits []uint64
		serr := parts[i].index.Search(env, func(id uint64) bool {
			if match(ds.dataset.geometry(id), window) {
				hits = append(hits, id)
			}
			return true
		})
		local[i] = hits
		return serr
	})
	if err != nil {
		return nil, translateError(err)
	}
	return newResultSet(ds.dataset, local), nil
}

// CountWithoutDuplicates counts the distinct records indexed in ds. Records
// replicated across partitions are counted once, so the result equals the
// size of the dataset.
func (e *Engine) CountWithoutDuplicates(ctx context.Context, ds *IndexedDataset) (count int, err error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	if err := ds.checkQueryable(); err != nil {
		return 0, err
	}

	start := time.Now()
	defer func() { e.observeQuery(ctx, ds, "count", start, len(ds.parts), count, err) }()

	for _, p := range ds.parts {
		if err := p.check(); err != nil {
			return 0, err
		}
	}

	local := make([]*bitmap.IDSet, len(ds.parts))
	err = e.probe(ctx, len(ds.parts), func(_ context.Context, i int) error {
		set, serr := ds.parts[i].ids()
		local[i] = set
		return serr
	})
	if err != nil {
		return 0, translateError(err)
	}

	all := bitmap.GetIDSet()
	defer bitmap.PutIDSet(all)
	for _, set := range local {
		all.Or(set)
	}
	return all.Len(), nil
}

// KNearest returns the k records closest to (x, y) ordered by distance and
// then record id. Distances are exact: a polygon containing the point is at
// distance 0. Fewer than k neighbours are returned when ds holds fewer
// records.
func (e *Engine) KNearest(ctx context.Context, ds *IndexedDataset, x, y float64, k int) (out []Neighbor, err error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if err := ds.checkQueryable(); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return nil, fmt.Errorf("%w: query point (%g, %g)", ErrInvalidArgument, x, y)
	}

	start := time.Now()
	var probed int
	defer func() { e.observeQuery(ctx, ds, "knn", start, probed, len(out), err) }()

	var parts []*partitionIndex
	for _, p := range ds.parts {
		if err := p.check(); err != nil {
			return nil, err
		}
		if p.entries > 0 {
			parts = append(parts, p)
		}
	}
	probed = len(parts)

	exact := func(id uint64) float64 {
		return geom.DistanceToPoint(ds.dataset.geometry(id), x, y)
	}
	local := make([][]index.Neighbor, len(parts))
	err = e.probe(ctx, len(parts), func(_ context.Context, i int) error {
		nn, nerr := parts[i].index.Nearest(x, y, k, exact)
		local[i] = nn
		return nerr
	})
	if err != nil {
		return nil, translateError(err)
	}

	var merged []index.Neighbor
	for _, nn := range local {
		merged = append(merged, nn...)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Distance != merged[j].Distance {
			return merged[i].Distance < merged[j].Distance
		}
		return merged[i].ID < merged[j].ID
	})

	seen := bitmap.GetIDSet()
	defer bitmap.PutIDSet(seen)
	out = make([]Neighbor, 0, k)
	for _, n := range merged {
		if len(out) == k {
			break
		}
		if !seen.CheckedAdd(n.ID) {
			continue
		}
		out = append(out, Neighbor{RecordID: n.ID, Geometry: ds.dataset.geometry(n.ID), Distance: n.Distance})
	}
	return out, nil
}
