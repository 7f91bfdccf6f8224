package bitmap

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// IDSet is a set of 64-bit record ids.
// It wraps the official roaring64 implementation.
type IDSet struct {
	rb *roaring64.Bitmap
}

// setPool reuses IDSets across merges.
var setPool = sync.Pool{
	New: func() any {
		return &IDSet{rb: roaring64.New()}
	},
}

// NewIDSet creates an empty set.
func NewIDSet() *IDSet {
	return &IDSet{rb: roaring64.New()}
}

// GetIDSet gets a set from the pool. Call PutIDSet when done.
func GetIDSet() *IDSet {
	s := setPool.Get().(*IDSet)
	s.rb.Clear()
	return s
}

// PutIDSet returns a set to the pool.
func PutIDSet(s *IDSet) {
	if s == nil {
		return
	}
	s.rb.Clear()
	setPool.Put(s)
}

// Add adds an id to the set.
func (s *IDSet) Add(id uint64) {
	s.rb.Add(id)
}

// CheckedAdd adds id and reports whether it was absent.
func (s *IDSet) CheckedAdd(id uint64) bool {
	return s.rb.CheckedAdd(id)
}

// Contains reports whether id is in the set.
func (s *IDSet) Contains(id uint64) bool {
	return s.rb.Contains(id)
}

// Len returns the number of ids.
func (s *IDSet) Len() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether the set has no ids.
func (s *IDSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Or merges other into s.
func (s *IDSet) Or(other *IDSet) {
	s.rb.Or(other.rb)
}

// Clone returns a deep copy of the set.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{rb: s.rb.Clone()}
}

// ToSlice returns the ids in ascending order.
func (s *IDSet) ToSlice() []uint64 {
	return s.rb.ToArray()
}

// All iterates the ids in ascending order.
func (s *IDSet) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Clear removes all ids.
func (s *IDSet) Clear() {
	s.rb.Clear()
}
