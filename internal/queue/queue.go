// Package queue provides the min-heap used by best-first nearest-neighbour
// traversal of the spatial indexes.
package queue

// Item is a queued tree node or entry.
//
// Items are ordered by Distance. On equal distance, unrefined items come
// before refined ones and lower IDs come first, which makes traversal order
// deterministic.
type Item struct {
	// Ref is the node or entry position inside the owning tree.
	Ref int32
	// Leaf marks entries as opposed to inner nodes.
	Leaf bool
	// Exact marks entries whose Distance is the exact geometry distance
	// rather than an envelope lower bound.
	Exact    bool
	ID       uint64
	Distance float64
}

// PriorityQueue is a value-based binary min-heap of Items.
type PriorityQueue struct {
	items []Item
}

// NewMin initializes an empty queue with the given capacity.
func NewMin(capacity int) *PriorityQueue {
	return &PriorityQueue{items: make([]Item, 0, capacity)}
}

// Len returns the number of queued items.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) PushItem(item Item) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PopItem removes and returns the smallest item.
func (pq *PriorityQueue) PopItem() (Item, bool) {
	n := len(pq.items)
	if n == 0 {
		return Item{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// Reset clears the queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue) less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.Exact != b.Exact {
		return !a.Exact
	}
	return a.ID < b.ID
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
