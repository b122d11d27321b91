package stage

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Link once either side has accepted an
	// item, been completed or been cancelled.
	ErrAlreadyStarted = errors.New("stage already started")
	// ErrAlreadyLinked is returned by Link when the upstream stage already
	// forwards somewhere or the downstream stage already has a producer.
	ErrAlreadyLinked = errors.New("stage already linked")
	// ErrCycle is returned by Link when the new link would close a loop.
	ErrCycle = errors.New("link would create a cycle")
	// ErrClosed is returned by Submit after Complete.
	ErrClosed = errors.New("stage input is closed")
	// ErrCancelled is the outcome of a stage stopped from the outside or by a
	// failing neighbour.
	ErrCancelled = errors.New("stage cancelled")
	// ErrTransformFailure matches every *TransformError.
	ErrTransformFailure = errors.New("transform failed")
	// ErrSubmitTimeout is returned when WithSubmitTimeout elapses while
	// Submit waits for buffer space.
	ErrSubmitTimeout   = errors.New("submit timed out")
	ErrInvalidCapacity = errors.New("stage capacity must be at least 1")
	ErrNilTransform    = errors.New("stage transform is nil")

	errFinished = errors.New("stage finished")
)

// TransformError reports a transform that returned an error or panicked.
type TransformError struct {
	Stage string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("stage %q: %s: %v", e.Stage, ErrTransformFailure, e.Err)
}

func (e *TransformError) Unwrap() []error {
	return []error{ErrTransformFailure, e.Err}
}

// cancelled wraps cause so that errors.Is(err, ErrCancelled) holds while the
// original reason stays reachable.
func cancelled(cause error) error {
	switch {
	case cause == nil:
		return ErrCancelled
	case errors.Is(cause, ErrCancelled):
		return cause
	default:
		return fmt.Errorf("%w: %w", ErrCancelled, cause)
	}
}
