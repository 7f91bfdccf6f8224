package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Envelope is an axis-aligned bounding box.
//
// A valid envelope satisfies MinX <= MaxX and MinY <= MaxY. Degenerate boxes
// (zero width and/or height) are valid and describe lines and points. The
// empty envelope returned by EmptyEnvelope is the identity for Union and
// intersects nothing.
type Envelope struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewEnvelope returns the envelope spanning the two corners, in any order.
func NewEnvelope(x1, y1, x2, y2 float64) Envelope {
	return Envelope{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

// EmptyEnvelope returns the envelope that contains nothing.
func EmptyEnvelope() Envelope {
	return Envelope{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// EnvelopeFromBound converts an orb bound.
func EnvelopeFromBound(b orb.Bound) Envelope {
	return Envelope{MinX: b.Min[0], MinY: b.Min[1], MaxX: b.Max[0], MaxY: b.Max[1]}
}

// IsEmpty reports whether e contains no point at all.
func (e Envelope) IsEmpty() bool {
	return e.MinX > e.MaxX || e.MinY > e.MaxY
}

// Width returns MaxX-MinX, or 0 for the empty envelope.
func (e Envelope) Width() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.MaxX - e.MinX
}

// Height returns MaxY-MinY, or 0 for the empty envelope.
func (e Envelope) Height() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.MaxY - e.MinY
}

// Area returns the area of e.
func (e Envelope) Area() float64 {
	return e.Width() * e.Height()
}

// Center returns the midpoint of e.
func (e Envelope) Center() (float64, float64) {
	return (e.MinX + e.MaxX) / 2, (e.MinY + e.MaxY) / 2
}

// Intersects reports whether e and o share at least one point. Touching
// edges count as intersecting.
func (e Envelope) Intersects(o Envelope) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return e.MinX <= o.MaxX && e.MaxX >= o.MinX &&
		e.MinY <= o.MaxY && e.MaxY >= o.MinY
}

// Contains reports whether o lies entirely inside e (boundary inclusive).
func (e Envelope) Contains(o Envelope) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return e.MinX <= o.MinX && e.MaxX >= o.MaxX &&
		e.MinY <= o.MinY && e.MaxY >= o.MaxY
}

// ContainsPoint reports whether (x, y) lies inside e (boundary inclusive).
func (e Envelope) ContainsPoint(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// Union returns the smallest envelope containing both e and o.
func (e Envelope) Union(o Envelope) Envelope {
	if e.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return e
	}
	return Envelope{
		MinX: math.Min(e.MinX, o.MinX),
		MinY: math.Min(e.MinY, o.MinY),
		MaxX: math.Max(e.MaxX, o.MaxX),
		MaxY: math.Max(e.MaxY, o.MaxY),
	}
}

// ExpandToInclude returns the smallest envelope containing e and (x, y).
func (e Envelope) ExpandToInclude(x, y float64) Envelope {
	return e.Union(Envelope{MinX: x, MinY: y, MaxX: x, MaxY: y})
}

// Buffer grows e by d on every side. Negative d is treated as zero.
func (e Envelope) Buffer(d float64) Envelope {
	if e.IsEmpty() || d <= 0 {
		return e
	}
	return Envelope{MinX: e.MinX - d, MinY: e.MinY - d, MaxX: e.MaxX + d, MaxY: e.MaxY + d}
}

// Distance returns the minimum distance between e and o; 0 when they
// intersect and +Inf when either is empty.
func (e Envelope) Distance(o Envelope) float64 {
	if e.IsEmpty() || o.IsEmpty() {
		return math.Inf(1)
	}
	dx := math.Max(0, math.Max(o.MinX-e.MaxX, e.MinX-o.MaxX))
	dy := math.Max(0, math.Max(o.MinY-e.MaxY, e.MinY-o.MaxY))
	return math.Hypot(dx, dy)
}

// DistanceToPoint returns the minimum distance from (x, y) to e.
func (e Envelope) DistanceToPoint(x, y float64) float64 {
	return e.Distance(Envelope{MinX: x, MinY: y, MaxX: x, MaxY: y})
}

// Bound converts e to an orb bound.
func (e Envelope) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.MinX, e.MinY}, Max: orb.Point{e.MaxX, e.MaxY}}
}

func (e Envelope) String() string {
	if e.IsEmpty() {
		return "Env[empty]"
	}
	return fmt.Sprintf("Env[%g:%g, %g:%g]", e.MinX, e.MaxX, e.MinY, e.MaxY)
}

func (e Envelope) isFinite() bool {
	return isFinite(e.MinX) && isFinite(e.MinY) && isFinite(e.MaxX) && isFinite(e.MaxY)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
