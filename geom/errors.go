package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned for malformed coordinates or shapes.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ErrInvalidRecord indicates a record that cannot enter a dataset.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidRecord struct {
	ID    uint64
	cause error
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid record %d: %v", e.ID, e.cause)
}

func (e *ErrInvalidRecord) Unwrap() error { return e.cause }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGeometry, fmt.Sprintf(format, args...))
}
