package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when a pool is constructed with fewer than
	// one worker.
	ErrInvalidSize = errors.New("pool: size must be at least 1")

	// ErrClosed is returned when a job is sent after the queue has been
	// closed (shutdown has begun).
	ErrClosed = errors.New("pool: queue closed")

	// ErrHandleTaken is returned when a worker's thread handle is requested
	// a second time. This signals a programming defect in the caller.
	ErrHandleTaken = errors.New("pool: thread handle already taken")
)

// WorkerPanicError reports that a job panicked during execution and killed
// its worker. It surfaces from ThreadHandle.Join and from Pool.Shutdown so
// callers can log and exit deliberately instead of the process aborting.
type WorkerPanicError struct {
	WorkerID int
	Value    interface{}
	Stack    []byte
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("pool: worker %d: job panicked: %v", e.WorkerID, e.Value)
}
