package geoshard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/internal/bitmap"
)

// PredicateFunc decides whether a left and a right geometry match.
type PredicateFunc func(left, right geom.Geometry) (bool, error)

// Predicate is a spatial join condition.
//
// Candidates are found through envelopes, so a predicate may only match
// pairs whose envelopes lie within its distance of each other.
type Predicate struct {
	name     string
	distance float64
	fn       PredicateFunc
	err      error
}

// Intersects matches pairs sharing at least one point.
func Intersects() Predicate {
	return Predicate{
		name: "intersects",
		fn: func(a, b geom.Geometry) (bool, error) {
			return geom.Intersects(a, b), nil
		},
	}
}

// Contains matches pairs whose left geometry covers the right one.
func Contains() Predicate {
	return Predicate{
		name: "contains",
		fn: func(a, b geom.Geometry) (bool, error) {
			return geom.Contains(a, b), nil
		},
	}
}

// WithinDistance matches pairs at most d apart. A negative d makes the
// join fail with ErrInvalidArgument.
func WithinDistance(d float64) Predicate {
	p := Predicate{
		name:     "within_distance",
		distance: d,
		fn: func(a, b geom.Geometry) (bool, error) {
			return geom.Distance(a, b) <= d, nil
		},
	}
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		p.err = fmt.Errorf("%w: distance %g", ErrInvalidArgument, d)
	}
	return p
}

// Custom wraps a caller-supplied predicate. fn must only match pairs whose
// envelopes intersect. A pair for which fn returns an error is logged,
// counted in JoinResult.PredicateErrors and excluded.
func Custom(name string, fn PredicateFunc) Predicate {
	p := Predicate{name: name, fn: fn}
	if fn == nil {
		p.err = fmt.Errorf("%w: nil predicate function", ErrInvalidArgument)
	}
	return p
}

// Name returns the predicate name used in logs and metrics.
func (p Predicate) Name() string { return p.name }

// Distance returns the envelope expansion used to find candidates.
func (p Predicate) Distance() float64 { return p.distance }

func (p Predicate) validate() error {
	if p.err != nil {
		return p.err
	}
	if p.fn == nil {
		return fmt.Errorf("%w: zero predicate", ErrInvalidArgument)
	}
	return nil
}

// Pair is a matching (left, right) record pair.
type Pair struct {
	LeftID  uint64
	RightID uint64
	Left    geom.Geometry
	Right   geom.Geometry
}

// JoinResult is a duplicate-free set of matching pairs ordered by left id,
// then right id.
type JoinResult struct {
	pairs []Pair
	set   *bitmap.PairSet

	// PredicateErrors counts the distinct candidate pairs excluded because
	// the predicate failed.
	PredicateErrors int
}

// Len returns the number of pairs.
func (r *JoinResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.pairs)
}

// Pairs returns a copy of the pairs.
func (r *JoinResult) Pairs() []Pair {
	if r == nil {
		return nil
	}
	return append([]Pair(nil), r.pairs...)
}

// Contains reports whether the pair matched.
func (r *JoinResult) Contains(left, right uint64) bool {
	return r != nil && r.set.Contains(left, right)
}

type partitionPair struct {
	left, right *partitionIndex
}

type predicateFailure struct {
	left, right uint64
	err         error
}

type joinLocal struct {
	matches  [][2]uint64
	failures []predicateFailure
}

// joinPairs returns the partition pairs whose effective boundaries lie
// within d of each other.
func joinPairs(a, b *IndexedDataset, d float64) ([]partitionPair, error) {
	var pairs []partitionPair
	for _, pa := range a.parts {
		if pa.effective.IsEmpty() {
			continue
		}
		var right []*partitionIndex
		err := b.lookup.Search(pa.effective.Buffer(d), func(id uint64) bool {
			right = append(right, b.parts[id])
			return true
		})
		if err != nil {
			return nil, err
		}
		if len(right) == 0 {
			continue
		}
		if err := pa.check(); err != nil {
			return nil, err
		}
		sort.Slice(right, func(i, j int) bool { return right[i].id < right[j].id })
		for _, pb := range right {
			if err := pb.check(); err != nil {
				return nil, err
			}
			pairs = append(pairs, partitionPair{left: pa, right: pb})
		}
	}
	return pairs, nil
}

// SpatialJoin returns every pair (l, r) with l from a and r from b for
// which pred holds.
//
// For each pair of partitions whose effective boundaries are within the
// predicate distance, the left index is probed with the right boundary and
// the right index with each candidate's envelope. Pairs found through more
// than one partition pair are reported once.
func (e *Engine) SpatialJoin(ctx context.Context, a, b *IndexedDataset, pred Predicate) (res *JoinResult, err error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if err := a.checkQueryable(); err != nil {
		return nil, err
	}
	if err := b.checkQueryable(); err != nil {
		return nil, err
	}
	if err := pred.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := e.logger.WithDataset(a.dataset.version)
	var pairs []partitionPair
	defer func() {
		failures := 0
		if res != nil {
			failures = res.PredicateErrors
		}
		logger.LogJoin(ctx, pred.name, len(pairs), res.Len(), failures, err)
		e.metrics.RecordJoin(pred.name, len(pairs), res.Len(), time.Since(start), err)
	}()

	d := pred.distance
	pairs, err = joinPairs(a, b, d)
	if err != nil {
		return nil, err
	}

	local := make([]joinLocal, len(pairs))
	err = e.probe(ctx, len(pairs), func(ctx context.Context, i int) error {
		pa, pb := pairs[i].left, pairs[i].right
		var out joinLocal
		var probeErr error
		serr := pa.index.Search(pb.effective.Buffer(d), func(left uint64) bool {
			if probeErr = ctx.Err(); probeErr != nil {
				return false
			}
			lg := a.dataset.geometry(left)
			probeErr = pb.index.Search(lg.Envelope().Buffer(d), func(right uint64) bool {
				rg := b.dataset.geometry(right)
				ok, perr := pred.fn(lg, rg)
				switch {
				case perr != nil:
					out.failures = append(out.failures, predicateFailure{left: left, right: right, err: perr})
				case ok:
					out.matches = append(out.matches, [2]uint64{left, right})
				}
				return true
			})
			return probeErr == nil
		})
		local[i] = out
		return errors.Join(serr, probeErr)
	})
	if err != nil {
		return nil, translateError(err)
	}

	set := bitmap.NewPairSet()
	failed := bitmap.NewPairSet()
	for _, l := range local {
		for _, m := range l.matches {
			set.CheckedAdd(m[0], m[1])
		}
		for _, f := range l.failures {
			if failed.CheckedAdd(f.left, f.right) {
				logger.LogPredicateError(ctx, pred.name, f.left, f.right, f.err)
				e.metrics.RecordPredicateError(pred.name)
			}
		}
	}

	res = &JoinResult{
		pairs:           make([]Pair, 0, set.Len()),
		set:             set,
		PredicateErrors: failed.Len(),
	}
	for l, r := range set.All() {
		res.pairs = append(res.pairs, Pair{
			LeftID:  l,
			RightID: r,
			Left:    a.dataset.geometry(l),
			Right:   b.dataset.geometry(r),
		})
	}
	return res, nil
}
