package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/geoshard/geom"
	"github.com/paulmach/orb"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Extent is shorthand for geom.NewEnvelope.
func Extent(minX, minY, maxX, maxY float64) geom.Envelope {
	return geom.NewEnvelope(minX, minY, maxX, maxY)
}

func (r *RNG) pointIn(e geom.Envelope) (float64, float64) {
	return e.MinX + r.rand.Float64()*e.Width(), e.MinY + r.rand.Float64()*e.Height()
}

// Points returns n point records with ids 0..n-1, uniform over extent.
func (r *RNG) Points(n int, extent geom.Envelope) []geom.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]geom.Record, n)
	for i := range out {
		x, y := r.pointIn(extent)
		out[i] = geom.NewRecord(uint64(i), geom.MustPoint(x, y))
	}
	return out
}

// MixedRecords returns n records with ids 0..n-1 cycling through points,
// small rectangles and small triangles, uniform over extent.
func (r *RNG) MixedRecords(n int, extent geom.Envelope) []geom.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := 0.02 * max(extent.Width(), extent.Height())
	out := make([]geom.Record, n)
	for i := range out {
		x, y := r.pointIn(extent)
		var g geom.Geometry
		switch i % 3 {
		case 0:
			g = geom.MustPoint(x, y)
		case 1:
			g = geom.MustRectangle(x, y, x+r.rand.Float64()*size, y+r.rand.Float64()*size)
		default:
			w, h := 0.1*size+r.rand.Float64()*size, 0.1*size+r.rand.Float64()*size
			g = geom.MustPolygon(orb.Point{x, y}, orb.Point{x + w, y}, orb.Point{x, y + h})
		}
		out[i] = geom.NewRecord(uint64(i), g, "r")
	}
	return out
}

// ClusteredPoints returns n points gathered around the given number of
// random centers with normal spread, clamped to extent.
func (r *RNG) ClusteredPoints(n, clusters int, spread float64, extent geom.Envelope) []geom.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([][2]float64, clusters)
	for i := range centers {
		x, y := r.pointIn(extent)
		centers[i] = [2]float64{x, y}
	}

	clamp := func(v, lo, hi float64) float64 { return min(max(v, lo), hi) }
	out := make([]geom.Record, n)
	for i := range out {
		c := centers[r.rand.Intn(clusters)]
		x := clamp(c[0]+r.rand.NormFloat64()*spread, extent.MinX, extent.MaxX)
		y := clamp(c[1]+r.rand.NormFloat64()*spread, extent.MinY, extent.MaxY)
		out[i] = geom.NewRecord(uint64(i), geom.MustPoint(x, y))
	}
	return out
}

// Window returns a random rectangle inside extent whose sides are at most
// frac of the extent's sides.
func (r *RNG) Window(extent geom.Envelope, frac float64) geom.Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, y := r.pointIn(extent)
	w := r.rand.Float64() * frac * extent.Width()
	h := r.rand.Float64() * frac * extent.Height()
	return geom.MustRectangle(x, y, x+w, y+h)
}
