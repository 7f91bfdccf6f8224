package kmeans

import (
	"context"
	"errors"
	"math"
	"math/rand"
)

// ErrNotEnoughPoints is returned when fewer than k distinct locations exist.
var ErrNotEnoughPoints = errors.New("kmeans: fewer distinct points than clusters")

// Point is a planar location.
type Point struct {
	X, Y float64
}

func (p Point) dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Result holds trained centroids and the cluster of every input point.
// No cluster is empty.
type Result struct {
	Centroids   []Point
	Assignments []int
}

// Sizes returns the number of points per cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, c := range r.Assignments {
		sizes[c]++
	}
	return sizes
}

// Train clusters points into k groups using Lloyd's algorithm.
// Initial centroids are k distinct locations chosen with rng.
func Train(ctx context.Context, points []Point, k, maxIter int, rng *rand.Rand) (*Result, error) {
	if k <= 0 {
		return nil, errors.New("kmeans: k must be positive")
	}

	distinct := distinctPoints(points)
	if len(distinct) < k {
		return nil, ErrNotEnoughPoints
	}

	centroids := make([]Point, k)
	perm := rng.Perm(len(distinct))
	for i := 0; i < k; i++ {
		centroids[i] = distinct[perm[i]]
	}

	n := len(points)
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	sums := make([]Point, k)
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false
		for i, p := range points {
			best := Nearest(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for j := range sums {
			sums[j] = Point{}
			counts[j] = 0
		}
		for i, p := range points {
			c := assignments[i]
			sums[c].X += p.X
			sums[c].Y += p.Y
			counts[c]++
		}
		for j := range centroids {
			if counts[j] > 0 {
				centroids[j] = Point{X: sums[j].X / float64(counts[j]), Y: sums[j].Y / float64(counts[j])}
			}
		}
	}

	for i, p := range points {
		assignments[i] = Nearest(p, centroids)
	}

	res := &Result{Centroids: centroids, Assignments: assignments}
	res.refill(points)
	return res, nil
}

// refill moves the point farthest from its centroid out of the largest
// cluster into each empty cluster.
func (r *Result) refill(points []Point) {
	sizes := r.Sizes()
	for j := range sizes {
		if sizes[j] > 0 {
			continue
		}
		largest := 0
		for c := range sizes {
			if sizes[c] > sizes[largest] {
				largest = c
			}
		}
		far, farDist := -1, -1.0
		for i, c := range r.Assignments {
			if c != largest {
				continue
			}
			if d := points[i].dist2(r.Centroids[largest]); d > farDist {
				far, farDist = i, d
			}
		}
		r.Assignments[far] = j
		r.Centroids[j] = points[far]
		sizes[largest]--
		sizes[j]++
	}
}

// Nearest returns the index of the centroid closest to p. Ties go to the
// lowest index.
func Nearest(p Point, centroids []Point) int {
	best := -1
	bestDist := math.Inf(1)
	for j, c := range centroids {
		if d := p.dist2(c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func distinctPoints(points []Point) []Point {
	seen := make(map[Point]struct{}, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
