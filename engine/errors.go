package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned when submitting work to a closed pool.
var ErrClosed = errors.New("executor closed")

// TaskError is the failure of the task for one partition.
type TaskError struct {
	Partition int
	Err       error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("partition %d: %v", e.Partition, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// MapError aggregates the task failures of one Map call, ordered by
// partition.
type MapError struct {
	Failures []TaskError
}

func (e *MapError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d task(s) failed", len(e.Failures))
	for i, f := range e.Failures {
		if i == 3 {
			fmt.Fprintf(&sb, "; and %d more", len(e.Failures)-i)
			break
		}
		sb.WriteString("; ")
		sb.WriteString(f.Error())
	}
	return sb.String()
}

// Unwrap supports errors.Is and errors.As over every task failure.
func (e *MapError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}
