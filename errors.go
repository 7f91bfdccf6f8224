package geoshard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/geoshard/engine"
	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/index"
	"github.com/hupe1980/geoshard/partition"
	"github.com/hupe1980/geoshard/resource"
	"github.com/hupe1980/geoshard/sampler"
)

var (
	// ErrInvalidGeometry is returned for records whose geometry is malformed.
	ErrInvalidGeometry = geom.ErrInvalidGeometry

	// ErrNotQueryable is returned when querying a closed dataset or a
	// partition whose index build failed.
	ErrNotQueryable = errors.New("dataset not queryable")

	// ErrClosed is returned when using a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrInvalidArgument is returned for out-of-range arguments and options.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrMemoryBudgetExceeded is returned when a partition index does not
	// fit into the configured memory limit.
	ErrMemoryBudgetExceeded = resource.ErrMemoryBudgetExceeded
)

// ErrDuplicateID indicates two records with the same id in one dataset.
type ErrDuplicateID struct {
	ID uint64
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("duplicate record id %d", e.ID)
}

func (e *ErrDuplicateID) Unwrap() error { return ErrInvalidArgument }

// PartitionFailure is the cause of one failed partition build.
type PartitionFailure struct {
	Partition int
	Err       error
}

func (f PartitionFailure) Error() string {
	return fmt.Sprintf("partition %d: %v", f.Partition, f.Err)
}

func (f PartitionFailure) Unwrap() error { return f.Err }

// PartialBuildError is returned by BuildIndex together with a usable
// IndexedDataset when some partitions failed to build. Queries that touch
// a failed partition fail with ErrNotQueryable.
type PartialBuildError struct {
	Failures []PartitionFailure
	Total    int
}

func (e *PartialBuildError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d of %d partitions failed to build: %s",
		len(e.Failures), e.Total, strings.Join(parts, "; "))
}

// Unwrap supports errors.Is and errors.As over every partition cause.
func (e *PartialBuildError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Failed returns the ids of the failed partitions.
func (e *PartialBuildError) Failed() []int {
	ids := make([]int, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.Partition
	}
	return ids
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Already part of the public contract.
	if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotQueryable) ||
		errors.Is(err, ErrClosed) || errors.Is(err, ErrInvalidK) {
		return err
	}

	if errors.Is(err, engine.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	if errors.Is(err, index.ErrNotBuilt) {
		return fmt.Errorf("%w: %w", ErrNotQueryable, err)
	}
	if errors.Is(err, index.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	// Argument normalization.
	for _, sentinel := range []error{
		partition.ErrInvalidPartitionCount,
		partition.ErrUnknownStrategy,
		partition.ErrInvalidOption,
		index.ErrUnknownKind,
		index.ErrInvalidOption,
		sampler.ErrInvalidSpec,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	return err
}
