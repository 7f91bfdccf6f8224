// Package sampler draws the bounded record sample that partitioners use to
// estimate the spatial extent and density of a dataset.
package sampler

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hupe1980/geoshard/geom"
)

// ErrInvalidSpec is returned for a sample spec that names neither a valid
// fraction nor a valid size.
var ErrInvalidSpec = errors.New("invalid sample spec")

// smallDatasetThreshold is the record count up to which the whole dataset is
// used as the sample.
const smallDatasetThreshold = 1000

// Spec selects the sample size. Exactly one of Fraction or Size must be set.
type Spec struct {
	// Fraction is the sampled share of the dataset, 0 < Fraction <= 1.
	Fraction float64
	// Size is an absolute sample size. Sizes above the record count yield
	// the whole dataset.
	Size int
}

// Fraction returns a spec sampling the given share of the dataset.
func Fraction(f float64) Spec { return Spec{Fraction: f} }

// Size returns a spec sampling k records.
func Size(k int) Spec { return Spec{Size: k} }

// Validate checks that s describes a usable sample.
func (s Spec) Validate() error {
	switch {
	case s.Fraction != 0 && s.Size != 0:
		return fmt.Errorf("%w: both fraction and size set", ErrInvalidSpec)
	case s.Size < 0:
		return fmt.Errorf("%w: size %d", ErrInvalidSpec, s.Size)
	case s.Size > 0:
		return nil
	case s.Fraction > 0 && s.Fraction <= 1:
		return nil
	default:
		return fmt.Errorf("%w: fraction %g not in (0, 1]", ErrInvalidSpec, s.Fraction)
	}
}

// sizeFor resolves s against a dataset of n records.
func (s Spec) sizeFor(n int) int {
	k := s.Size
	if k == 0 {
		k = int(s.Fraction * float64(n))
		if k == 0 && n > 0 {
			k = 1
		}
	}
	if k > n {
		k = n
	}
	return k
}

// DefaultSize returns the sample size used when the caller does not specify
// one: the whole dataset up to 1000 records, otherwise 1% of it but never
// fewer than two records per partition.
func DefaultSize(total, numPartitions int) int {
	if total <= smallDatasetThreshold {
		return total
	}
	k := total / 100
	if floor := 2 * numPartitions; k < floor {
		k = floor
	}
	if k > total {
		k = total
	}
	return k
}

// Draw returns a uniform random sample of records without replacement.
//
// The output order is unspecified. An empty input yields an empty sample.
// rng must not be shared with concurrent callers.
func Draw(records []geom.Record, spec Spec, rng *rand.Rand) ([]geom.Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	n := len(records)
	k := spec.sizeFor(n)
	if k == n {
		return append([]geom.Record(nil), records...), nil
	}

	// Partial Fisher-Yates over an index permutation keeps records intact.
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	out := make([]geom.Record, k)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
		out[i] = records[perm[i]]
	}
	return out, nil
}
