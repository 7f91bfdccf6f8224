package index

import "fmt"

const (
	// DefaultNodeCapacity is the R-tree fan-out.
	DefaultNodeCapacity = 10
	// DefaultMaxItems is the quadtree leaf capacity.
	DefaultMaxItems = 16
	// DefaultMaxDepth bounds quadtree subdivision.
	DefaultMaxDepth = 16
)

type options struct {
	nodeCapacity int
	maxItems     int
	maxDepth     int
}

// Option configures index construction.
type Option func(*options)

// WithNodeCapacity sets the maximum number of children per R-tree node.
func WithNodeCapacity(n int) Option {
	return func(o *options) {
		o.nodeCapacity = n
	}
}

// WithMaxItems sets the number of entries a quadtree node holds before it
// is subdivided.
func WithMaxItems(n int) Option {
	return func(o *options) {
		o.maxItems = n
	}
}

// WithMaxDepth bounds the depth of the quadtree.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

func applyOptions(optFns []Option) (options, error) {
	o := options{
		nodeCapacity: DefaultNodeCapacity,
		maxItems:     DefaultMaxItems,
		maxDepth:     DefaultMaxDepth,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.nodeCapacity < 2 {
		return o, fmt.Errorf("%w: node capacity %d < 2", ErrInvalidOption, o.nodeCapacity)
	}
	if o.maxItems < 1 {
		return o, fmt.Errorf("%w: max items %d < 1", ErrInvalidOption, o.maxItems)
	}
	if o.maxDepth < 1 {
		return o, fmt.Errorf("%w: max depth %d < 1", ErrInvalidOption, o.maxDepth)
	}
	return o, nil
}
