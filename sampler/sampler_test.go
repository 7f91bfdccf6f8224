package sampler

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/geoshard/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(n int) []geom.Record {
	out := make([]geom.Record, n)
	for i := range out {
		out[i] = geom.NewRecord(uint64(i), geom.MustPoint(float64(i), float64(i%7)))
	}
	return out
}

func TestDrawWithoutReplacement(t *testing.T) {
	records := makeRecords(500)
	sample, err := Draw(records, Size(100), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, sample, 100)

	seen := make(map[uint64]struct{})
	for _, r := range sample {
		_, dup := seen[r.ID]
		assert.False(t, dup, "record %d sampled twice", r.ID)
		seen[r.ID] = struct{}{}
	}
}

func TestDrawFraction(t *testing.T) {
	records := makeRecords(1000)
	sample, err := Draw(records, Fraction(0.1), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Len(t, sample, 100)

	sample, err = Draw(records, Fraction(1), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Len(t, sample, 1000)
}

func TestDrawIsReproducible(t *testing.T) {
	records := makeRecords(300)
	a, err := Draw(records, Size(20), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := Draw(records, Size(20), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDrawEmptyAndOversized(t *testing.T) {
	sample, err := Draw(nil, Fraction(0.5), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Empty(t, sample)

	sample, err = Draw(makeRecords(5), Size(50), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, sample, 5)
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{"fraction", Fraction(0.3), true},
		{"full fraction", Fraction(1), true},
		{"size", Size(10), true},
		{"zero", Spec{}, false},
		{"fraction above one", Fraction(1.5), false},
		{"negative size", Size(-1), false},
		{"both", Spec{Fraction: 0.5, Size: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSpec)
			}
		})
	}
}

func TestDefaultSize(t *testing.T) {
	assert.Equal(t, 0, DefaultSize(0, 4))
	assert.Equal(t, 800, DefaultSize(800, 4))
	assert.Equal(t, 100, DefaultSize(10000, 4))
	assert.Equal(t, 200, DefaultSize(2000, 100))
}
