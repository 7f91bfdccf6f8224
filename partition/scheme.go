package partition

import (
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/index"
)

// Descriptor is one partition of a Scheme.
type Descriptor struct {
	ID       int
	Boundary geom.Envelope
}

// Mode selects how many partitions an envelope is assigned to.
type Mode uint8

const (
	// ModeOwner assigns an envelope to the lowest intersecting partition
	// only, or in a Hilbert scheme to the run holding its centre, so that
	// every record is counted once.
	ModeOwner Mode = iota + 1
	// ModeReplicate assigns an envelope to every intersecting partition.
	ModeReplicate
)

// Scheme is the ordered, immutable set of partition boundaries computed for
// one dataset version.
type Scheme struct {
	strategy    Strategy
	requested   int
	descriptors []Descriptor
	extent      geom.Envelope
	// lookup is always built by newScheme, so Search on it cannot fail.
	lookup *index.Index
	// curve is set for Hilbert schemes, whose records are owned by curve
	// position rather than by boundary.
	curve *curve
}

func newScheme(strategy Strategy, requested int, boundaries []geom.Envelope) (*Scheme, error) {
	s := &Scheme{
		strategy:    strategy,
		requested:   requested,
		descriptors: make([]Descriptor, len(boundaries)),
		extent:      geom.EmptyEnvelope(),
	}
	entries := make([]index.Entry, 0, len(boundaries))
	for i, b := range boundaries {
		s.descriptors[i] = Descriptor{ID: i, Boundary: b}
		s.extent = s.extent.Union(b)
		if !b.IsEmpty() {
			entries = append(entries, index.Entry{ID: uint64(i), Envelope: b})
		}
	}
	lookup, err := index.Build(index.KindRTree, entries)
	if err != nil {
		return nil, err
	}
	s.lookup = lookup
	return s, nil
}

// Strategy returns the strategy that produced s.
func (s *Scheme) Strategy() Strategy { return s.strategy }

// Len returns the number of partitions.
func (s *Scheme) Len() int { return len(s.descriptors) }

// Requested returns the partition count originally asked for. It is larger
// than Len when the sample had fewer distinct locations, or too few
// distinct coordinates or curve positions to cut on.
func (s *Scheme) Requested() int { return s.requested }

// Extent returns the union of all boundaries.
func (s *Scheme) Extent() geom.Envelope { return s.extent }

// Descriptors returns a copy of the ordered descriptors.
func (s *Scheme) Descriptors() []Descriptor {
	return append([]Descriptor(nil), s.descriptors...)
}

// Descriptor returns the descriptor with the given id.
func (s *Scheme) Descriptor(id int) (Descriptor, bool) {
	if id < 0 || id >= len(s.descriptors) {
		return Descriptor{}, false
	}
	return s.descriptors[id], true
}

// Lookup returns the ids of all partitions whose boundary intersects env,
// in ascending order.
func (s *Scheme) Lookup(env geom.Envelope) []int {
	var ids []int
	_ = s.lookup.Search(env, func(id uint64) bool {
		ids = append(ids, int(id))
		return true
	})
	sort.Ints(ids)
	return ids
}

// Assign returns the partitions env belongs to, in ascending order. An
// envelope that intersects no boundary goes to the nearest partition.
//
// In a Hilbert scheme the owner is the run whose curve range holds the
// centre of env, and ModeReplicate always includes it.
func (s *Scheme) Assign(env geom.Envelope, mode Mode) []int {
	if s.curve != nil {
		owner := s.curve.run(env)
		if mode == ModeOwner {
			return []int{owner}
		}
		ids := s.Lookup(env)
		if i := sort.SearchInts(ids, owner); i == len(ids) || ids[i] != owner {
			ids = slices.Insert(ids, i, owner)
		}
		return ids
	}

	ids := s.Lookup(env)
	if len(ids) == 0 {
		return []int{s.Nearest(env)}
	}
	if mode == ModeOwner {
		return ids[:1]
	}
	return ids
}

// Owner returns the single partition that logically owns env. It is always
// one of the partitions Assign returns for ModeReplicate.
func (s *Scheme) Owner(env geom.Envelope) int {
	return s.Assign(env, ModeOwner)[0]
}

// Nearest returns the partition whose boundary is closest to env. Ties go
// to the lowest id.
func (s *Scheme) Nearest(env geom.Envelope) int {
	best, bestDist := 0, math.Inf(1)
	for _, d := range s.descriptors {
		if dist := d.Boundary.Distance(env); dist < bestDist {
			best, bestDist = d.ID, dist
		}
	}
	return best
}
