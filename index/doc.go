// Package index provides the per-partition spatial indexes.
//
// Two index kinds are supported:
//
//   - KindRTree: an R-tree bulk loaded with Sort-Tile-Recursive packing
//   - KindQuadtree: a region quadtree built by recursive subdivision
//
// Both are built from a complete batch of entries in one pass, so query
// performance does not depend on input order. An Index is immutable after
// Build and safe for concurrent use by multiple goroutines.
//
// # Usage
//
//	ix, err := index.Build(index.KindRTree, entries)
//	ids, err := ix.Query(window)
//	nn, err := ix.Nearest(x, y, 5, nil)
//
// Query results are sound at the envelope level: every entry whose envelope
// intersects the window is returned. Exact geometric filtering is the
// caller's responsibility.
package index
