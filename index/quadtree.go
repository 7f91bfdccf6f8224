package index

import (
	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/internal/queue"
)

type qnode struct {
	bounds   geom.Envelope
	items    []int32
	children [4]int32
}

// Quadtree is a static region quadtree. Each node covers a quadrant of its
// parent; entries that straddle a quadrant edge stay at the deepest node
// that fully contains them.
type Quadtree struct {
	entries []Entry
	nodes   []qnode
	bounds  geom.Envelope

	maxItems int
	maxDepth int
}

// NewQuadtree subdivides the extent of entries until every node holds at
// most maxItems entries or maxDepth is reached.
func NewQuadtree(entries []Entry, maxItems, maxDepth int) *Quadtree {
	q := &Quadtree{
		entries:  append([]Entry(nil), entries...),
		bounds:   geom.EmptyEnvelope(),
		maxItems: maxItems,
		maxDepth: maxDepth,
	}
	if len(q.entries) == 0 {
		return q
	}
	all := make([]int32, len(q.entries))
	for i, e := range q.entries {
		all[i] = int32(i)
		q.bounds = q.bounds.Union(e.Envelope)
	}
	q.build(q.bounds, all, 0)
	return q
}

func (q *Quadtree) build(bounds geom.Envelope, items []int32, depth int) int32 {
	id := int32(len(q.nodes))
	q.nodes = append(q.nodes, qnode{bounds: bounds, children: [4]int32{-1, -1, -1, -1}})

	if len(items) <= q.maxItems || depth >= q.maxDepth || (bounds.Width() == 0 && bounds.Height() == 0) {
		q.nodes[id].items = items
		return id
	}

	quads := quadrants(bounds)
	var buckets [4][]int32
	var stay []int32
	for _, it := range items {
		env := q.entries[it].Envelope
		placed := false
		for qi := range quads {
			if quads[qi].Contains(env) {
				buckets[qi] = append(buckets[qi], it)
				placed = true
				break
			}
		}
		if !placed {
			stay = append(stay, it)
		}
	}
	if len(stay) == len(items) {
		q.nodes[id].items = items
		return id
	}

	q.nodes[id].items = stay
	for qi := range quads {
		if len(buckets[qi]) == 0 {
			continue
		}
		child := q.build(quads[qi], buckets[qi], depth+1)
		q.nodes[id].children[qi] = child
	}
	return id
}

// quadrants splits b at its center: SW, SE, NW, NE.
func quadrants(b geom.Envelope) [4]geom.Envelope {
	cx, cy := b.Center()
	return [4]geom.Envelope{
		{MinX: b.MinX, MinY: b.MinY, MaxX: cx, MaxY: cy},
		{MinX: cx, MinY: b.MinY, MaxX: b.MaxX, MaxY: cy},
		{MinX: b.MinX, MinY: cy, MaxX: cx, MaxY: b.MaxY},
		{MinX: cx, MinY: cy, MaxX: b.MaxX, MaxY: b.MaxY},
	}
}

// Len returns the number of entries.
func (q *Quadtree) Len() int { return len(q.entries) }

// Bounds returns the extent of all entries.
func (q *Quadtree) Bounds() geom.Envelope { return q.bounds }

// Depth returns the number of levels, 0 for an empty tree.
func (q *Quadtree) Depth() int {
	if len(q.nodes) == 0 {
		return 0
	}
	var walk func(id int32) int
	walk = func(id int32) int {
		d := 0
		for _, c := range q.nodes[id].children {
			if c >= 0 {
				d = max(d, walk(c))
			}
		}
		return d + 1
	}
	return walk(0)
}

// Search calls fn for every entry whose envelope intersects window until fn
// returns false.
func (q *Quadtree) Search(window geom.Envelope, fn func(id uint64) bool) {
	if len(q.nodes) == 0 || window.IsEmpty() {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		n := &q.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !n.bounds.Intersects(window) {
			continue
		}
		for _, it := range n.items {
			e := q.entries[it]
			if e.Envelope.Intersects(window) && !fn(e.ID) {
				return
			}
		}
		for _, c := range n.children {
			if c >= 0 {
				stack = append(stack, c)
			}
		}
	}
}

// Nearest runs a best-first traversal and returns up to k neighbours.
func (q *Quadtree) Nearest(x, y float64, k int, exact DistanceFunc) []Neighbor {
	if len(q.nodes) == 0 {
		return nil
	}
	pq := queue.NewMin(2 * k)
	pq.PushItem(queue.Item{Ref: 0, Distance: q.nodes[0].bounds.DistanceToPoint(x, y)})

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
		n := &q.nodes[it.Ref]
		for _, i := range n.items {
			e := q.entries[i]
			pq.PushItem(queue.Item{
				Ref:      i,
				Leaf:     true,
				Exact:    exact == nil,
				ID:       e.ID,
				Distance: e.Envelope.DistanceToPoint(x, y),
			})
		}
		for _, c := range n.children {
			if c >= 0 {
				pq.PushItem(queue.Item{Ref: c, Distance: q.nodes[c].bounds.DistanceToPoint(x, y)})
			}
		}
	}
	return out
}
