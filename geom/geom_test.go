package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsRejectNonFinite(t *testing.T) {
	_, err := NewPoint(math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewRectangle(0, 0, math.Inf(1), 1)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewRectangle(2, 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewPolygon([]orb.Point{{0, 0}, {1, 0}, {math.NaN(), 1}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewPolygon([]orb.Point{{0, 0}, {1, 0}, {0, 0}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestPolygonIsClosed(t *testing.T) {
	g := MustPolygon(orb.Point{0, 0}, orb.Point{4, 0}, orb.Point{0, 4})
	assert.Equal(t, KindPolygon, g.Kind())
	assert.Len(t, g.Vertices(), 3)
	assert.Equal(t, Envelope{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}, g.Envelope())

	poly, ok := g.Orb().(orb.Polygon)
	require.True(t, ok)
	assert.True(t, poly[0].Closed())
}

func TestEnvelope(t *testing.T) {
	a := NewEnvelope(10, 10, 0, 0)
	assert.Equal(t, Envelope{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, a)

	b := Envelope{MinX: 10, MinY: 5, MaxX: 20, MaxY: 6}
	assert.True(t, a.Intersects(b), "touching edges intersect")
	assert.False(t, a.Intersects(Envelope{MinX: 10.5, MinY: 0, MaxX: 11, MaxY: 1}))

	empty := EmptyEnvelope()
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.Intersects(a))
	assert.Equal(t, a, empty.Union(a))
	assert.True(t, math.IsInf(empty.Distance(a), 1))

	assert.InDelta(t, 5.0, a.DistanceToPoint(13, 14), 1e-12)
	assert.Equal(t, 0.0, a.Distance(b))
	assert.True(t, a.Contains(Envelope{MinX: 1, MinY: 1, MaxX: 10, MaxY: 10}))
	assert.Equal(t, Envelope{MinX: -1, MinY: -1, MaxX: 11, MaxY: 11}, a.Buffer(1))
}

func TestIntersects(t *testing.T) {
	tri := MustPolygon(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{0, 10})

	tests := []struct {
		name string
		a, b Geometry
		want bool
	}{
		{"point in rect", MustPoint(1, 1), MustRectangle(0, 0, 2, 2), true},
		{"point on rect edge", MustPoint(2, 1), MustRectangle(0, 0, 2, 2), true},
		{"point outside rect", MustPoint(3, 1), MustRectangle(0, 0, 2, 2), false},
		{"equal points", MustPoint(1, 1), MustPoint(1, 1), true},
		{"distinct points", MustPoint(1, 1), MustPoint(1, 2), false},
		{"touching rects", MustRectangle(0, 0, 1, 1), MustRectangle(1, 1, 2, 2), true},
		{"point inside triangle", MustPoint(2, 2), tri, true},
		{"point in triangle envelope only", MustPoint(8, 8), tri, false},
		{"rect crossing hypotenuse", MustRectangle(4, 4, 6, 6), tri, true},
		{"rect beyond hypotenuse", MustRectangle(7, 7, 9, 9), tri, false},
		{"triangle inside rect", tri, MustRectangle(-1, -1, 20, 20), true},
		{"invalid", Geometry{}, MustPoint(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersects(tt.a, tt.b))
			assert.Equal(t, tt.want, Intersects(tt.b, tt.a))
		})
	}
}

func TestContains(t *testing.T) {
	square := MustPolygon(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{0, 10})
	// U shape: the notch spans x in (3,7), y in (5,10].
	u := MustPolygon(
		orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{7, 10},
		orb.Point{7, 5}, orb.Point{3, 5}, orb.Point{3, 10}, orb.Point{0, 10},
	)

	assert.True(t, Contains(MustRectangle(0, 0, 10, 10), MustPoint(10, 10)))
	assert.True(t, Contains(square, MustRectangle(1, 1, 9, 9)))
	assert.True(t, Contains(square, MustPoint(5, 5)))
	assert.False(t, Contains(MustRectangle(1, 1, 9, 9), square))
	assert.True(t, Contains(u, MustRectangle(1, 1, 9, 4)))
	assert.False(t, Contains(u, MustRectangle(1, 6, 9, 8)), "rectangle spans the notch")
	assert.False(t, Contains(u, MustPoint(5, 8)))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(MustPoint(0, 0), MustPoint(3, 4)))
	assert.Equal(t, 0.0, Distance(MustPoint(1, 1), MustRectangle(0, 0, 2, 2)))
	assert.InDelta(t, 3.0, Distance(MustRectangle(0, 0, 1, 1), MustRectangle(4, 0, 5, 1)), 1e-12)

	tri := MustPolygon(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{0, 10})
	assert.InDelta(t, math.Sqrt2*5, Distance(tri, MustPoint(10, 10)), 1e-9)

	assert.Equal(t, 0.0, DistanceToPoint(tri, 1, 1))
	assert.InDelta(t, 1.0, DistanceToPoint(tri, -1, 5), 1e-12)
	assert.InDelta(t, 2.0, DistanceToPoint(MustRectangle(0, 0, 1, 1), 3, 1), 1e-12)
}

func TestRecordValidate(t *testing.T) {
	require.NoError(t, NewRecord(1, MustPoint(0, 0), "a").Validate())

	err := Record{ID: 7}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	var rec *ErrInvalidRecord
	require.True(t, errors.As(err, &rec))
	assert.Equal(t, uint64(7), rec.ID)
}

func TestEnvelopeOf(t *testing.T) {
	records := []Record{
		NewRecord(1, MustPoint(0, 5)),
		NewRecord(2, MustRectangle(2, -1, 3, 0)),
	}
	assert.Equal(t, Envelope{MinX: 0, MinY: -1, MaxX: 3, MaxY: 5}, EnvelopeOf(records))
	assert.True(t, EnvelopeOf(nil).IsEmpty())
}
