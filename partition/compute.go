package partition

import (
	"cmp"
	"context"
	"fmt"

	"github.com/hupe1980/geoshard/geom"
)

// point is a sample centroid together with the record envelope it came from.
type point struct {
	x, y float64
	env  geom.Envelope
	pos  int
}

// Compute derives a partition scheme with numPartitions partitions from the
// sample using the given strategy.
//
// When the sample has fewer distinct centroid locations than numPartitions,
// the partition count is reduced to that number. STR and Hilbert reduce it
// further when equal coordinates or curve positions leave too few places
// to cut. An empty sample yields a
// single partition with an empty boundary.
func Compute(ctx context.Context, sample []geom.Record, numPartitions int, strategy Strategy, optFns ...Option) (*Scheme, error) {
	if numPartitions < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPartitionCount, numPartitions)
	}
	switch strategy {
	case StrategyUniform, StrategySTR, StrategyHilbert, StrategyVoronoi:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, strategy)
	}
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(sample) == 0 {
		return newScheme(strategy, numPartitions, []geom.Envelope{geom.EmptyEnvelope()})
	}

	points := make([]point, len(sample))
	for i, r := range sample {
		env := r.Envelope()
		cx, cy := env.Center()
		points[i] = point{x: cx, y: cy, env: env, pos: i}
	}
	n := min(numPartitions, distinctLocations(points))
	extent := geom.EnvelopeOf(sample)

	var (
		boundaries []geom.Envelope
		hc         *curve
	)
	switch strategy {
	case StrategyUniform:
		boundaries = uniformGrid(extent, n)
	case StrategySTR:
		boundaries = strGrid(extent, points, n)
	case StrategyHilbert:
		boundaries, hc = hilbertRuns(extent, points, n, opts.hilbertOrder)
	case StrategyVoronoi:
		boundaries, err = voronoiCells(ctx, points, n, opts)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := newScheme(strategy, numPartitions, boundaries)
	if err != nil {
		return nil, err
	}
	s.curve = hc
	return s, nil
}

func distinctLocations(points []point) int {
	seen := make(map[[2]float64]struct{}, len(points))
	for _, p := range points {
		seen[[2]float64{p.x, p.y}] = struct{}{}
	}
	return len(seen)
}

// cut returns the start offset of run i when m items are split into n
// runs whose sizes differ by at most one.
func cut(m, n, i int) int {
	return m * i / n
}

// snapCuts splits the sorted keys into len(targets)+1 runs and returns the
// run offsets, first 0 and last len(keys). Interior borders are moved to
// the nearest offset where the key changes, so equal keys always share a
// run and no run is empty. The number of runs must not exceed the number
// of distinct keys.
func snapCuts[K cmp.Ordered](keys []K, targets []int) []int {
	var starts []int
	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[i-1] {
			starts = append(starts, i)
		}
	}

	n := len(targets) + 1
	out := make([]int, n+1)
	out[n] = len(keys)
	j := 0
	for i := 1; i < n; i++ {
		target := targets[i-1]
		// Leave one border for each remaining run.
		last := len(starts) - n + i
		for j < last && absInt(starts[j+1]-target) < absInt(starts[j]-target) {
			j++
		}
		out[i] = starts[j]
		j++
	}
	return out
}

// distinct counts the distinct values of the sorted keys.
func distinct[K cmp.Ordered](keys []K) int {
	if len(keys) == 0 {
		return 0
	}
	d := 1
	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[i-1] {
			d++
		}
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// between returns the midpoint of two distinct sorted coordinates.
func between(lo, hi float64) float64 {
	return lo + (hi-lo)/2
}
