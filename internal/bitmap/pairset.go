package bitmap

import (
	"iter"
	"sort"
)

// PairSet is a set of (left, right) id pairs, stored as one roaring set of
// right ids per left id.
type PairSet struct {
	rows map[uint64]*IDSet
	n    int
}

// NewPairSet creates an empty pair set.
func NewPairSet() *PairSet {
	return &PairSet{rows: make(map[uint64]*IDSet)}
}

// CheckedAdd adds the pair and reports whether it was absent.
func (p *PairSet) CheckedAdd(left, right uint64) bool {
	row, ok := p.rows[left]
	if !ok {
		row = NewIDSet()
		p.rows[left] = row
	}
	if !row.CheckedAdd(right) {
		return false
	}
	p.n++
	return true
}

// Contains reports whether the pair is in the set.
func (p *PairSet) Contains(left, right uint64) bool {
	row, ok := p.rows[left]
	return ok && row.Contains(right)
}

// Len returns the number of pairs.
func (p *PairSet) Len() int { return p.n }

// All iterates the pairs ordered by left id, then right id.
func (p *PairSet) All() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		lefts := make([]uint64, 0, len(p.rows))
		for l := range p.rows {
			lefts = append(lefts, l)
		}
		sort.Slice(lefts, func(i, j int) bool { return lefts[i] < lefts[j] })
		for _, l := range lefts {
			for r := range p.rows[l].All() {
				if !yield(l, r) {
					return
				}
			}
		}
	}
}
