package partition

import "fmt"

const (
	// DefaultHilbertOrder is the curve order used to linearize centroids.
	DefaultHilbertOrder = 16
	// DefaultIterations bounds Lloyd refinement of Voronoi seeds.
	DefaultIterations = 10
)

type options struct {
	seed         int64
	hilbertOrder int
	iterations   int
}

// Option configures scheme computation.
type Option func(*options)

// WithSeed seeds the random choice of Voronoi seeds.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithHilbertOrder sets the Hilbert curve order (1..31).
func WithHilbertOrder(order int) Option {
	return func(o *options) {
		o.hilbertOrder = order
	}
}

// WithIterations sets the number of k-means iterations for Voronoi seeds.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
	}
}

func applyOptions(optFns []Option) (options, error) {
	o := options{
		hilbertOrder: DefaultHilbertOrder,
		iterations:   DefaultIterations,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.hilbertOrder < 1 || o.hilbertOrder > 31 {
		return o, fmt.Errorf("%w: hilbert order %d not in [1,31]", ErrInvalidOption, o.hilbertOrder)
	}
	if o.iterations < 1 {
		return o, fmt.Errorf("%w: iterations %d < 1", ErrInvalidOption, o.iterations)
	}
	return o, nil
}
