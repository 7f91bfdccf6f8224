package partition

import (
	"math"
	"sort"

	"github.com/hupe1980/geoshard/geom"
)

type strSlab struct {
	ys    []float64
	cells int
}

// strGrid tiles extent into up to n cells holding near-equal shares of the
// sample. Centroids are sorted by x into ceil(sqrt(n)) vertical slabs, each
// slab is sorted by y and cut into its cells.
//
// Cuts lie halfway between neighbouring distinct coordinates, so every cell
// contains at least one centroid and only extent-sized cells can have zero
// width or height. Runs of equal coordinates are never split; when a slab
// has fewer distinct y values than cells, the spare cells move to other
// slabs. If that still leaves fewer than n cells, more slabs are tried
// before the count is reduced. The outer edges snap to extent, so the cells
// cover extent without gaps.
func strGrid(extent geom.Envelope, points []point, n int) []geom.Envelope {
	pts := append([]point(nil), points...)
	sort.Slice(pts, func(a, b int) bool {
		pa, pb := pts[a], pts[b]
		if pa.x != pb.x {
			return pa.x < pb.x
		}
		if pa.y != pb.y {
			return pa.y < pb.y
		}
		return pa.pos < pb.pos
	})

	xs := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.x
	}

	maxSlabs := min(n, distinct(xs))
	slabCount := min(int(math.Ceil(math.Sqrt(float64(n)))), maxSlabs)
	cells := strCells(extent, xs, pts, n, slabCount)
	for len(cells) < n && slabCount < maxSlabs {
		slabCount++
		cells = strCells(extent, xs, pts, n, slabCount)
	}
	return cells
}

// strCells cuts the x-sorted points into slabCount slabs and the slabs into
// at most n cells.
func strCells(extent geom.Envelope, xs []float64, pts []point, n, slabCount int) []geom.Envelope {
	m := len(pts)
	quota := make([]int, slabCount)
	targets := make([]int, 0, slabCount-1)
	cellsBefore := 0
	for s := range quota {
		quota[s] = n / slabCount
		if s < n%slabCount {
			quota[s]++
		}
		cellsBefore += quota[s]
		if s < slabCount-1 {
			targets = append(targets, cut(m, n, cellsBefore))
		}
	}
	xcuts := snapCuts(xs, targets)

	slabs := make([]strSlab, slabCount)
	deficit := 0
	for s := range slabs {
		ys := make([]float64, 0, xcuts[s+1]-xcuts[s])
		for _, p := range pts[xcuts[s]:xcuts[s+1]] {
			ys = append(ys, p.y)
		}
		sort.Float64s(ys)
		c := min(quota[s], distinct(ys))
		deficit += quota[s] - c
		slabs[s] = strSlab{ys: ys, cells: c}
	}
	for s := range slabs {
		if deficit == 0 {
			break
		}
		extra := min(deficit, distinct(slabs[s].ys)-slabs[s].cells)
		slabs[s].cells += extra
		deficit -= extra
	}

	cells := make([]geom.Envelope, 0, n)
	for s, sl := range slabs {
		minX, maxX := extent.MinX, extent.MaxX
		if s > 0 {
			minX = between(xs[xcuts[s]-1], xs[xcuts[s]])
		}
		if s < slabCount-1 {
			maxX = between(xs[xcuts[s+1]-1], xs[xcuts[s+1]])
		}

		k := len(sl.ys)
		yTargets := make([]int, 0, sl.cells-1)
		for c := 1; c < sl.cells; c++ {
			yTargets = append(yTargets, cut(k, sl.cells, c))
		}
		ycuts := snapCuts(sl.ys, yTargets)

		for c := 0; c < sl.cells; c++ {
			minY, maxY := extent.MinY, extent.MaxY
			if c > 0 {
				minY = between(sl.ys[ycuts[c]-1], sl.ys[ycuts[c]])
			}
			if c < sl.cells-1 {
				maxY = between(sl.ys[ycuts[c+1]-1], sl.ys[ycuts[c+1]])
			}
			cells = append(cells, geom.Envelope{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
		}
	}
	return cells
}
