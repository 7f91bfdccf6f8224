package index

import (
	"fmt"
	"strings"

	"github.com/hupe1980/geoshard/geom"
)

// Kind selects the index structure. The set is closed.
type Kind uint8

const (
	KindRTree Kind = iota + 1
	KindQuadtree
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindRTree:
		return "rtree"
	case KindQuadtree:
		return "quadtree"
	default:
		return "unknown"
	}
}

// ParseKind parses the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "rtree", "r-tree", "strtree":
		return KindRTree, nil
	case "quadtree":
		return KindQuadtree, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Entry is an indexed item: a record id and the envelope of its geometry.
type Entry struct {
	ID       uint64
	Envelope geom.Envelope
}

// Neighbor is a nearest-neighbour result.
type Neighbor struct {
	ID       uint64
	Distance float64
}

// DistanceFunc returns the exact distance from the query point to the
// geometry of the entry with the given id. It must never be smaller than the
// distance to the entry's envelope.
type DistanceFunc func(id uint64) float64

// Index is a built spatial index of one of the supported kinds.
//
// The zero value is an unbuilt index; every query on it fails with
// ErrNotBuilt.
type Index struct {
	kind  Kind
	rtree *RTree
	quad  *Quadtree
}

// Build bulk loads an index of the given kind over entries.
// The entries slice is not retained.
func Build(kind Kind, entries []Entry, optFns ...Option) (*Index, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindRTree:
		return &Index{kind: kind, rtree: NewRTree(entries, opts.nodeCapacity)}, nil
	case KindQuadtree:
		return &Index{kind: kind, quad: NewQuadtree(entries, opts.maxItems, opts.maxDepth)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// Kind returns the structure backing ix.
func (ix *Index) Kind() Kind {
	if ix == nil {
		return 0
	}
	return ix.kind
}

// Built reports whether ix can be queried.
func (ix *Index) Built() bool {
	return ix != nil && (ix.rtree != nil || ix.quad != nil)
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	switch {
	case !ix.Built():
		return 0
	case ix.kind == KindRTree:
		return ix.rtree.Len()
	default:
		return ix.quad.Len()
	}
}

// Bounds returns the union of all indexed envelopes.
func (ix *Index) Bounds() geom.Envelope {
	switch {
	case !ix.Built():
		return geom.EmptyEnvelope()
	case ix.kind == KindRTree:
		return ix.rtree.Bounds()
	default:
		return ix.quad.Bounds()
	}
}

// Search calls fn for every entry whose envelope intersects window until fn
// returns false.
func (ix *Index) Search(window geom.Envelope, fn func(id uint64) bool) error {
	switch {
	case !ix.Built():
		return ErrNotBuilt
	case ix.kind == KindRTree:
		ix.rtree.Search(window, fn)
	default:
		ix.quad.Search(window, fn)
	}
	return nil
}

// Query returns the ids of all entries whose envelope intersects window.
func (ix *Index) Query(window geom.Envelope) ([]uint64, error) {
	var ids []uint64
	err := ix.Search(window, func(id uint64) bool {
		ids = append(ids, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Nearest returns up to k entries closest to (x, y), ordered by distance and
// then id. When exact is nil the envelope distance is used.
func (ix *Index) Nearest(x, y float64, k int, exact DistanceFunc) ([]Neighbor, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	switch {
	case !ix.Built():
		return nil, ErrNotBuilt
	case ix.kind == KindRTree:
		return ix.rtree.Nearest(x, y, k, exact), nil
	default:
		return ix.quad.Nearest(x, y, k, exact), nil
	}
}
