package partition

import "errors"

var (
	// ErrInvalidPartitionCount is returned when fewer than one partition is requested.
	ErrInvalidPartitionCount = errors.New("partition count must be at least 1")

	// ErrUnknownStrategy is returned for a strategy outside the closed set.
	ErrUnknownStrategy = errors.New("unknown partition strategy")

	// ErrInvalidOption is returned for out-of-range scheme options.
	ErrInvalidOption = errors.New("invalid partition option")
)
