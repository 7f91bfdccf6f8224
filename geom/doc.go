// Package geom defines the data model of the engine: envelopes, the closed
// Point/Rectangle/Polygon geometry union and geometry records.
//
// Geometries are immutable once constructed. All constructors validate their
// input and reject non-finite coordinates with ErrInvalidGeometry, so a value
// obtained from this package is always safe to index.
//
// # Predicates
//
// Exact predicates are evaluated with github.com/paulmach/orb:
//
//	geom.Intersects(a, b)      // shared point, boundaries inclusive
//	geom.Contains(a, b)        // a covers b
//	geom.Distance(a, b)        // minimum planar distance, 0 if they intersect
//	geom.DistanceToPoint(g, x, y)
package geom
