package index

import (
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/hupe1980/geoshard/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinds = []Kind{KindRTree, KindQuadtree}

func randomEntries(rng *rand.Rand, n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		x, y := rng.Float64()*100, rng.Float64()*100
		w, h := 0.0, 0.0
		if i%3 == 0 {
			w, h = rng.Float64()*5, rng.Float64()*5
		}
		entries[i] = Entry{ID: uint64(i), Envelope: geom.Envelope{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}}
	}
	return entries
}

func bruteQuery(entries []Entry, window geom.Envelope) []uint64 {
	var ids []uint64
	for _, e := range entries {
		if e.Envelope.Intersects(window) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func sorted(ids []uint64) []uint64 {
	out := append([]uint64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	entries := randomEntries(rng, 2000)

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			ix, err := Build(kind, entries, WithNodeCapacity(8), WithMaxItems(8))
			require.NoError(t, err)
			assert.Equal(t, len(entries), ix.Len())
			assert.Equal(t, kind, ix.Kind())

			for i := 0; i < 50; i++ {
				x, y := rng.Float64()*100, rng.Float64()*100
				window := geom.Envelope{MinX: x, MinY: y, MaxX: x + rng.Float64()*20, MaxY: y + rng.Float64()*20}
				got, err := ix.Query(window)
				require.NoError(t, err)
				assert.Equal(t, sorted(bruteQuery(entries, window)), sorted(got))
			}
		})
	}
}

func TestQueryTouchingWindow(t *testing.T) {
	entries := []Entry{
		{ID: 1, Envelope: geom.Envelope{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}},
		{ID: 2, Envelope: geom.Envelope{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}},
	}
	for _, kind := range kinds {
		ix, err := Build(kind, entries)
		require.NoError(t, err)

		got, err := ix.Query(geom.Envelope{MinX: 1, MinY: 1, MaxX: 5, MaxY: 5})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint64{1, 2}, got, kind.String())
	}
}

func TestDuplicateLocations(t *testing.T) {
	entries := make([]Entry, 100)
	for i := range entries {
		entries[i] = Entry{ID: uint64(i), Envelope: geom.Envelope{MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}}
	}
	for _, kind := range kinds {
		ix, err := Build(kind, entries, WithMaxItems(4), WithNodeCapacity(4))
		require.NoError(t, err)
		got, err := ix.Query(geom.Envelope{MinX: 0, MinY: 0, MaxX: 3, MaxY: 3})
		require.NoError(t, err)
		assert.Len(t, got, 100, kind.String())
	}
}

func TestEmptyIndex(t *testing.T) {
	for _, kind := range kinds {
		ix, err := Build(kind, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, ix.Len())
		assert.True(t, ix.Bounds().IsEmpty())

		got, err := ix.Query(geom.Envelope{MinX: -1e9, MinY: -1e9, MaxX: 1e9, MaxY: 1e9})
		require.NoError(t, err)
		assert.Empty(t, got)

		nn, err := ix.Nearest(0, 0, 3, nil)
		require.NoError(t, err)
		assert.Empty(t, nn)
	}
}

func TestUnbuiltIndexFailsFast(t *testing.T) {
	var ix Index
	_, err := ix.Query(geom.Envelope{MaxX: 1, MaxY: 1})
	assert.ErrorIs(t, err, ErrNotBuilt)

	var nilIx *Index
	_, err = nilIx.Nearest(0, 0, 1, nil)
	assert.ErrorIs(t, err, ErrNotBuilt)
	assert.False(t, nilIx.Built())
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(Kind(99), nil)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Build(KindRTree, nil, WithNodeCapacity(1))
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = Build(KindQuadtree, nil, WithMaxDepth(0))
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("RTree")
	require.NoError(t, err)
	assert.Equal(t, KindRTree, k)

	k, err = ParseKind("quadtree")
	require.NoError(t, err)
	assert.Equal(t, KindQuadtree, k)

	_, err = ParseKind("kdtree")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	entries := randomEntries(rng, 500)

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			ix, err := Build(kind, entries)
			require.NoError(t, err)

			for i := 0; i < 20; i++ {
				x, y := rng.Float64()*100, rng.Float64()*100
				got, err := ix.Nearest(x, y, 5, nil)
				require.NoError(t, err)
				require.Len(t, got, 5)

				want := make([]Neighbor, len(entries))
				for j, e := range entries {
					want[j] = Neighbor{ID: e.ID, Distance: e.Envelope.DistanceToPoint(x, y)}
				}
				sort.Slice(want, func(a, b int) bool {
					if want[a].Distance != want[b].Distance {
						return want[a].Distance < want[b].Distance
					}
					return want[a].ID < want[b].ID
				})
				assert.Equal(t, want[:5], got)
			}
		})
	}
}

func TestNearestExactRefinement(t *testing.T) {
	// Entry 1 has a large envelope close to the query but its exact geometry
	// is far away; entry 2 is a point slightly farther than the envelope.
	entries := []Entry{
		{ID: 1, Envelope: geom.Envelope{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}},
		{ID: 2, Envelope: geom.Envelope{MinX: 12, MinY: 5, MaxX: 12, MaxY: 5}},
	}
	exact := func(id uint64) float64 {
		if id == 1 {
			return 9
		}
		return 1
	}
	for _, kind := range kinds {
		ix, err := Build(kind, entries)
		require.NoError(t, err)
		got, err := ix.Nearest(11, 5, 1, exact)
		require.NoError(t, err)
		assert.Equal(t, []Neighbor{{ID: 2, Distance: 1}}, got, kind.String())
	}
}

func TestConcurrentQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	entries := randomEntries(rng, 1000)
	window := geom.Envelope{MinX: 20, MinY: 20, MaxX: 60, MaxY: 60}
	want := sorted(bruteQuery(entries, window))

	for _, kind := range kinds {
		ix, err := Build(kind, entries)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := ix.Query(window)
				assert.NoError(t, err)
				assert.Equal(t, want, sorted(got))
			}()
		}
		wg.Wait()
	}
}

func TestRTreeIsBalanced(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	tree := NewRTree(randomEntries(rng, 1000), 10)
	// 1000 entries at fan-out 10 pack into exactly three levels.
	assert.Equal(t, 3, tree.Height())
}

func TestQuadtreeSubdivides(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := NewQuadtree(randomEntries(rng, 1000), 16, 16)
	assert.Greater(t, tree.Depth(), 1)
	assert.LessOrEqual(t, tree.Depth(), 17)
}
