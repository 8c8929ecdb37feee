package pool

import "time"

// Observer receives pool lifecycle notifications. Implementations must be
// safe for concurrent use; all methods are called from producer or worker
// goroutines. The pool itself never imports a metrics backend, observability
// packages plug in through this interface.
type Observer interface {
	// JobSubmitted is called after a job has been accepted into the queue.
	JobSubmitted()

	// JobStarted is called when a worker dequeues a job, before running it.
	JobStarted(workerID int)

	// JobFinished is called when a job returns normally.
	JobFinished(workerID int, d time.Duration)

	// JobPanicked is called when a job panics and kills its worker.
	JobPanicked(workerID int)
}

// nopObserver is the default Observer; it records nothing.
type nopObserver struct{}

func (nopObserver) JobSubmitted()                             {}
func (nopObserver) JobStarted(workerID int)                   {}
func (nopObserver) JobFinished(workerID int, d time.Duration) {}
func (nopObserver) JobPanicked(workerID int)                  {}
