package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Intersects reports whether a and b share at least one point. Boundaries
// are inclusive: touching shapes intersect.
func Intersects(a, b Geometry) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	if !a.env.Intersects(b.env) {
		return false
	}
	if a.kind == KindPoint {
		return containsPoint(b, a.point)
	}
	if b.kind == KindPoint {
		return containsPoint(a, b.point)
	}
	if a.kind == KindRectangle && b.kind == KindRectangle {
		return true
	}

	ra, rb := a.closedRing(), b.closedRing()
	for _, v := range ra[:len(ra)-1] {
		if containsPoint(b, v) {
			return true
		}
	}
	for _, v := range rb[:len(rb)-1] {
		if containsPoint(a, v) {
			return true
		}
	}
	for i := 0; i < len(ra)-1; i++ {
		for j := 0; j < len(rb)-1; j++ {
			if segmentsIntersect(ra[i], ra[i+1], rb[j], rb[j+1]) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether a covers b: no point of b lies outside a.
func Contains(a, b Geometry) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	if !a.env.Contains(b.env) {
		return false
	}
	if a.kind != KindPolygon {
		// Envelope containment is exact for points and rectangles.
		return true
	}
	for _, v := range b.Vertices() {
		if !planar.RingContains(a.ring, v) {
			return false
		}
	}
	if b.kind == KindPoint {
		return true
	}

	rb := b.closedRing()
	for j := 0; j < len(rb)-1; j++ {
		mid := orb.Point{(rb[j][0] + rb[j+1][0]) / 2, (rb[j][1] + rb[j+1][1]) / 2}
		if !planar.RingContains(a.ring, mid) {
			return false
		}
		for i := 0; i < len(a.ring)-1; i++ {
			if segmentsCross(a.ring[i], a.ring[i+1], rb[j], rb[j+1]) {
				return false
			}
		}
	}
	return true
}

// Distance returns the minimum planar distance between a and b. It is 0 when
// they intersect and +Inf when either is invalid.
func Distance(a, b Geometry) float64 {
	if !a.IsValid() || !b.IsValid() {
		return math.Inf(1)
	}
	if Intersects(a, b) {
		return 0
	}
	// Disjoint shapes: the closest pair of points always involves a vertex.
	d := math.Inf(1)
	for _, v := range a.Vertices() {
		d = math.Min(d, boundaryDistance(b, v))
	}
	for _, v := range b.Vertices() {
		d = math.Min(d, boundaryDistance(a, v))
	}
	return d
}

// DistanceToPoint returns the minimum distance from (x, y) to g; 0 when the
// point lies inside g.
func DistanceToPoint(g Geometry, x, y float64) float64 {
	p := orb.Point{x, y}
	switch g.kind {
	case KindPoint:
		return planar.Distance(g.point, p)
	case KindRectangle:
		return g.env.DistanceToPoint(x, y)
	case KindPolygon:
		if planar.RingContains(g.ring, p) {
			return 0
		}
		return planar.DistanceFrom(g.ring, p)
	default:
		return math.Inf(1)
	}
}

func containsPoint(g Geometry, p orb.Point) bool {
	switch g.kind {
	case KindPoint:
		return g.point == p
	case KindRectangle:
		return g.env.ContainsPoint(p[0], p[1])
	case KindPolygon:
		return g.env.ContainsPoint(p[0], p[1]) && planar.RingContains(g.ring, p)
	default:
		return false
	}
}

func boundaryDistance(g Geometry, p orb.Point) float64 {
	if g.kind == KindPoint {
		return planar.Distance(g.point, p)
	}
	return planar.DistanceFrom(g.closedRing(), p)
}

func orient(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

// segmentsIntersect reports whether segments p1p2 and q1q2 share any point.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

// segmentsCross reports whether the segments cross at a single interior point.
func segmentsCross(p1, p2, q1, q2 orb.Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
