package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// Kind identifies the variant held by a Geometry.
type Kind uint8

const (
	// KindInvalid is the kind of the zero Geometry.
	KindInvalid Kind = iota
	KindPoint
	KindRectangle
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindRectangle:
		return "rectangle"
	case KindPolygon:
		return "polygon"
	default:
		return "invalid"
	}
}

// Geometry is a closed union over points, rectangles and simple polygons.
//
// The zero value is invalid and is rejected wherever a geometry is consumed.
// Use NewPoint, NewRectangle or NewPolygon to construct one.
type Geometry struct {
	kind  Kind
	point orb.Point
	bound orb.Bound
	ring  orb.Ring // closed: first == last
	env   Envelope
}

// NewPoint returns a point geometry.
func NewPoint(x, y float64) (Geometry, error) {
	if !isFinite(x) || !isFinite(y) {
		return Geometry{}, invalidf("point (%g, %g) is not finite", x, y)
	}
	return Geometry{
		kind:  KindPoint,
		point: orb.Point{x, y},
		env:   Envelope{MinX: x, MinY: y, MaxX: x, MaxY: y},
	}, nil
}

// NewRectangle returns an axis-aligned rectangle. The corners must be ordered.
func NewRectangle(minX, minY, maxX, maxY float64) (Geometry, error) {
	env := Envelope{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	if !env.isFinite() {
		return Geometry{}, invalidf("rectangle %v is not finite", env)
	}
	if minX > maxX || minY > maxY {
		return Geometry{}, invalidf("rectangle corners are inverted: %v", env)
	}
	return Geometry{kind: KindRectangle, bound: env.Bound(), env: env}, nil
}

// NewPolygon returns a simple polygon from its outer ring. The ring may be
// open or closed; it is closed on construction. At least three distinct
// vertices are required.
func NewPolygon(vertices []orb.Point) (Geometry, error) {
	ring := make(orb.Ring, 0, len(vertices)+1)
	env := EmptyEnvelope()
	distinct := make(map[orb.Point]struct{}, len(vertices))
	for _, v := range vertices {
		if !isFinite(v[0]) || !isFinite(v[1]) {
			return Geometry{}, invalidf("polygon vertex (%g, %g) is not finite", v[0], v[1])
		}
		ring = append(ring, v)
		env = env.ExpandToInclude(v[0], v[1])
		distinct[v] = struct{}{}
	}
	if len(distinct) < 3 {
		return Geometry{}, invalidf("polygon needs 3 distinct vertices, got %d", len(distinct))
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return Geometry{kind: KindPolygon, ring: ring, env: env}, nil
}

// MustPoint is like NewPoint but panics on invalid input.
func MustPoint(x, y float64) Geometry {
	g, err := NewPoint(x, y)
	if err != nil {
		panic(err)
	}
	return g
}

// MustRectangle is like NewRectangle but panics on invalid input.
func MustRectangle(minX, minY, maxX, maxY float64) Geometry {
	g, err := NewRectangle(minX, minY, maxX, maxY)
	if err != nil {
		panic(err)
	}
	return g
}

// MustPolygon is like NewPolygon but panics on invalid input.
func MustPolygon(vertices ...orb.Point) Geometry {
	g, err := NewPolygon(vertices)
	if err != nil {
		panic(err)
	}
	return g
}

// Kind returns the variant of g.
func (g Geometry) Kind() Kind { return g.kind }

// IsValid reports whether g was produced by a constructor.
func (g Geometry) IsValid() bool { return g.kind != KindInvalid }

// Envelope returns the bounding box of g.
func (g Geometry) Envelope() Envelope {
	if g.kind == KindInvalid {
		return EmptyEnvelope()
	}
	return g.env
}

// Center returns the center of the envelope of g. Partitioners use it as the
// location of a record.
func (g Geometry) Center() (float64, float64) {
	return g.env.Center()
}

// Orb returns g as an orb geometry. Polygon rings are copied.
func (g Geometry) Orb() orb.Geometry {
	switch g.kind {
	case KindPoint:
		return g.point
	case KindRectangle:
		return g.bound
	case KindPolygon:
		return orb.Polygon{g.ring.Clone()}
	default:
		return nil
	}
}

// Vertices returns the distinct corner points of g in ring order, without
// the closing vertex.
func (g Geometry) Vertices() []orb.Point {
	switch g.kind {
	case KindPoint:
		return []orb.Point{g.point}
	case KindRectangle:
		r := g.bound.ToRing()
		return append([]orb.Point(nil), r[:len(r)-1]...)
	case KindPolygon:
		return append([]orb.Point(nil), g.ring[:len(g.ring)-1]...)
	default:
		return nil
	}
}

// String returns the WKT representation of g.
func (g Geometry) String() string {
	if g.kind == KindInvalid {
		return "INVALID"
	}
	return wkt.MarshalString(g.Orb())
}

// closedRing returns the boundary ring of a rectangle or polygon.
func (g Geometry) closedRing() orb.Ring {
	switch g.kind {
	case KindRectangle:
		return g.bound.ToRing()
	case KindPolygon:
		return g.ring
	default:
		return nil
	}
}
