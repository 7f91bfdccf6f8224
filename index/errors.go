package index

import "errors"

var (
	// ErrUnknownKind is returned for an index kind outside the closed set.
	ErrUnknownKind = errors.New("unknown index kind")

	// ErrNotBuilt is returned when querying an index that was never built.
	ErrNotBuilt = errors.New("index not built")

	// ErrInvalidOption is returned for out-of-range build options.
	ErrInvalidOption = errors.New("invalid index option")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)
