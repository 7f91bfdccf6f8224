package testutil

import (
	"testing"

	"github.com/hupe1980/geoshard/geom"
	"github.com/stretchr/testify/assert"
)

func TestPointsStayInExtent(t *testing.T) {
	rng := NewRNG(4711)
	extent := Extent(-10, -10, 10, 10)

	records := rng.Points(100, extent)
	assert.Len(t, records, 100)
	for i, r := range records {
		assert.Equal(t, uint64(i), r.ID)
		assert.True(t, extent.Contains(r.Envelope()))
	}
}

func TestMixedRecordsAreValid(t *testing.T) {
	rng := NewRNG(4711)
	records := rng.MixedRecords(300, Extent(0, 0, 100, 100))

	kinds := map[geom.Kind]int{}
	for _, r := range records {
		assert.NoError(t, r.Validate())
		kinds[r.Geometry.Kind()]++
	}
	assert.Equal(t, 100, kinds[geom.KindPoint])
	assert.Equal(t, 100, kinds[geom.KindRectangle])
	assert.Equal(t, 100, kinds[geom.KindPolygon])
}

func TestResetReproduces(t *testing.T) {
	rng := NewRNG(1)
	a := rng.ClusteredPoints(50, 3, 1, Extent(0, 0, 10, 10))
	rng.Reset()
	b := rng.ClusteredPoints(50, 3, 1, Extent(0, 0, 10, 10))
	assert.Equal(t, a, b)
	assert.Equal(t, int64(1), rng.Seed())
}

func TestOracles(t *testing.T) {
	records := []geom.Record{
		geom.NewRecord(2, geom.MustPoint(1, 1)),
		geom.NewRecord(1, geom.MustRectangle(0, 0, 2, 2)),
		geom.NewRecord(3, geom.MustPoint(5, 5)),
	}
	window := geom.MustRectangle(0, 0, 1, 1)

	assert.Equal(t, []uint64{1, 2}, BruteRange(records, window, false))
	assert.Equal(t, []uint64{2}, BruteRange(records, window, true))

	pairs := BruteJoin(records, records[:1], geom.Intersects)
	assert.Equal(t, [][2]uint64{{1, 2}, {2, 2}}, pairs)

	nn := BruteKNearest(records, 1, 1, 2)
	assert.Equal(t, []Neighbor{{ID: 1, Distance: 0}, {ID: 2, Distance: 0}}, nn)
}
