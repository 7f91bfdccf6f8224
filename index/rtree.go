package index

import (
	"math"
	"sort"

	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/internal/queue"
)

// rnode is a packed R-tree node. Children of a node are contiguous: leaves
// address a range of entries, inner nodes a range of nodes.
type rnode struct {
	env   geom.Envelope
	leaf  bool
	first int32
	count int32
}

// RTree is a static R-tree bulk loaded with Sort-Tile-Recursive packing.
type RTree struct {
	entries []Entry
	nodes   []rnode
	root    int32
}

// NewRTree packs entries into an R-tree with the given node capacity.
func NewRTree(entries []Entry, capacity int) *RTree {
	t := &RTree{
		entries: append([]Entry(nil), entries...),
		root:    -1,
	}
	if len(t.entries) == 0 {
		return t
	}

	strSort(t.entries, capacity, entryKey)

	level := make([]rnode, 0, (len(t.entries)+capacity-1)/capacity)
	for i := 0; i < len(t.entries); i += capacity {
		n := min(capacity, len(t.entries)-i)
		env := geom.EmptyEnvelope()
		for _, e := range t.entries[i : i+n] {
			env = env.Union(e.Envelope)
		}
		level = append(level, rnode{env: env, leaf: true, first: int32(i), count: int32(n)})
	}

	for len(level) > 1 {
		strSort(level, capacity, nodeKey)
		base := len(t.nodes)
		t.nodes = append(t.nodes, level...)

		parents := make([]rnode, 0, (len(level)+capacity-1)/capacity)
		for i := 0; i < len(level); i += capacity {
			n := min(capacity, len(level)-i)
			env := geom.EmptyEnvelope()
			for _, c := range level[i : i+n] {
				env = env.Union(c.env)
			}
			parents = append(parents, rnode{env: env, first: int32(base + i), count: int32(n)})
		}
		level = parents
	}
	t.root = int32(len(t.nodes))
	t.nodes = append(t.nodes, level[0])
	return t
}

func entryKey(e Entry) (float64, float64, uint64) {
	cx, cy := e.Envelope.Center()
	return cx, cy, e.ID
}

func nodeKey(n rnode) (float64, float64, uint64) {
	cx, cy := n.env.Center()
	return cx, cy, uint64(n.first)
}

// strSort orders items in Sort-Tile-Recursive order: sorted by x center,
// cut into ceil(sqrt(P)) vertical slabs of P groups, each slab sorted by y
// center. Ties break on the other axis and then on the key id.
func strSort[T any](items []T, capacity int, key func(T) (float64, float64, uint64)) {
	sort.Slice(items, func(a, b int) bool {
		ax, ay, aid := key(items[a])
		bx, by, bid := key(items[b])
		if ax != bx {
			return ax < bx
		}
		if ay != by {
			return ay < by
		}
		return aid < bid
	})

	n := len(items)
	groups := (n + capacity - 1) / capacity
	slabs := int(math.Ceil(math.Sqrt(float64(groups))))
	slabSize := slabs * capacity
	for lo := 0; lo < n; lo += slabSize {
		slab := items[lo:min(lo+slabSize, n)]
		sort.Slice(slab, func(a, b int) bool {
			ax, ay, aid := key(slab[a])
			bx, by, bid := key(slab[b])
			if ay != by {
				return ay < by
			}
			if ax != bx {
				return ax < bx
			}
			return aid < bid
		})
	}
}

// Len returns the number of entries.
func (t *RTree) Len() int { return len(t.entries) }

// Bounds returns the envelope of the root node.
func (t *RTree) Bounds() geom.Envelope {
	if t.root < 0 {
		return geom.EmptyEnvelope()
	}
	return t.nodes[t.root].env
}

// Height returns the number of levels, 0 for an empty tree.
func (t *RTree) Height() int {
	if t.root < 0 {
		return 0
	}
	h := 1
	for n := t.nodes[t.root]; !n.leaf; n = t.nodes[n.first] {
		h++
	}
	return h
}

// Search calls fn for every entry whose envelope intersects window until fn
// returns false.
func (t *RTree) Search(window geom.Envelope, fn func(id uint64) bool) {
	if t.root < 0 || window.IsEmpty() {
		return
	}
	stack := []int32{t.root}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !n.env.Intersects(window) {
			continue
		}
		if n.leaf {
			for _, e := range t.entries[n.first : n.first+n.count] {
				if e.Envelope.Intersects(window) && !fn(e.ID) {
					return
				}
			}
			continue
		}
		for c := n.first + n.count - 1; c >= n.first; c-- {
			stack = append(stack, c)
		}
	}
}

// Nearest runs a best-first traversal and returns up to k neighbours.
func (t *RTree) Nearest(x, y float64, k int, exact DistanceFunc) []Neighbor {
	if t.root < 0 {
		return nil
	}
	pq := queue.NewMin(2 * k)
	pq.PushItem(queue.Item{Ref: t.root, Distance: t.nodes[t.root].env.DistanceToPoint(x, y)})

	out := make([]Neighbor, 0, k)
	for len(out) < k {
		it, ok := pq.PopItem()
		if !ok {
			break
		}
		if it.Leaf {
			if it.Exact {
				out = append(out, Neighbor{ID: it.ID, Distance: it.Distance})
				continue
			}
			it.Exact = true
			it.Distance = exact(it.ID)
			pq.PushItem(it)
			continue
		}
		n := t.nodes[it.Ref]
		if n.leaf {
			for i := n.first; i < n.first+n.count; i++ {
				e := t.entries[i]
				pq.PushItem(queue.Item{
					Ref:      i,
					Leaf:     true,
					Exact:    exact == nil,
					ID:       e.ID,
					Distance: e.Envelope.DistanceToPoint(x, y),
				})
			}
			continue
		}
		for c := n.first; c < n.first+n.count; c++ {
			pq.PushItem(queue.Item{Ref: c, Distance: t.nodes[c].env.DistanceToPoint(x, y)})
		}
	}
	return out
}
