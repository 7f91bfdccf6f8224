package partition

import (
	"sort"

	"github.com/hupe1980/geoshard/geom"
)

// curve places envelope centres on the Hilbert curve of a scheme's extent
// and maps curve positions back to runs.
type curve struct {
	extent geom.Envelope
	order  int
	// starts holds the first curve position of each run, ascending.
	starts []uint64
}

func (c *curve) key(x, y float64) uint64 {
	side := uint32(1)<<uint(c.order) - 1
	return hilbertIndex(c.order,
		scale(x, c.extent.MinX, c.extent.Width(), side),
		scale(y, c.extent.MinY, c.extent.Height(), side))
}

// run returns the run whose curve range holds the centre of env. Centres
// outside the extent are clamped onto its border.
func (c *curve) run(env geom.Envelope) int {
	d := c.key(env.Center())
	i := sort.Search(len(c.starts), func(i int) bool { return c.starts[i] > d })
	return max(i-1, 0)
}

// hilbertRuns orders centroids along a Hilbert curve over extent and cuts
// them into up to n equal-count runs. Centroids on the same curve position
// stay in one run, so fewer runs are produced when the curve resolution
// merges nearby centroids. A run's boundary is the union of its records'
// envelopes.
func hilbertRuns(extent geom.Envelope, points []point, n, order int) ([]geom.Envelope, *curve) {
	c := &curve{extent: extent, order: order}

	pts := append([]point(nil), points...)
	keys := make([]uint64, len(pts))
	for i, p := range pts {
		keys[i] = c.key(p.x, p.y)
	}
	sort.Sort(byKey{keys: keys, pts: pts})

	m := len(keys)
	n = min(n, distinct(keys))
	targets := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		targets = append(targets, cut(m, n, i))
	}
	cuts := snapCuts(keys, targets)

	runs := make([]geom.Envelope, n)
	c.starts = make([]uint64, n)
	for i := range runs {
		env := geom.EmptyEnvelope()
		for _, p := range pts[cuts[i]:cuts[i+1]] {
			env = env.Union(p.env)
		}
		runs[i] = env
		c.starts[i] = keys[cuts[i]]
	}
	return runs, c
}

// byKey sorts points by curve position, then by sample position.
type byKey struct {
	keys []uint64
	pts  []point
}

func (b byKey) Len() int { return len(b.keys) }

func (b byKey) Less(i, j int) bool {
	if b.keys[i] != b.keys[j] {
		return b.keys[i] < b.keys[j]
	}
	return b.pts[i].pos < b.pts[j].pos
}

func (b byKey) Swap(i, j int) {
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.pts[i], b.pts[j] = b.pts[j], b.pts[i]
}

// scale maps v from [lo, lo+width] onto the integer grid [0, side].
func scale(v, lo, width float64, side uint32) uint32 {
	if width <= 0 {
		return 0
	}
	f := (v - lo) / width
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return side
	}
	return uint32(f * float64(side))
}

// hilbertIndex returns the distance of (x, y) along the Hilbert curve of
// the given order.
func hilbertIndex(order int, x, y uint32) uint64 {
	n := uint32(1) << uint(order)
	var d uint64
	for s := n / 2; s > 0; s /= 2 {
		var rx, ry uint32
		if x&s != 0 {
			rx = 1
		}
		if y&s != 0 {
			ry = 1
		}
		d += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		if ry == 0 {
			if rx == 1 {
				x = n - 1 - x
				y = n - 1 - y
			}
			x, y = y, x
		}
	}
	return d
}
