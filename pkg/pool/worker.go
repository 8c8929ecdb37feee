package pool

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/spoolio/spool/pkg/logging"
)

// Worker owns one goroutine that repeatedly dequeues a job from the shared
// receiver and executes it. The goroutine exits when the queue is closed
// and drained, or abnormally when a job panics.
type Worker struct {
	id int

	mu     sync.Mutex
	handle *ThreadHandle // nil once taken
}

// ThreadHandle represents ownership of a worker's goroutine. Exactly one
// handle exists per worker and it can be taken from the worker at most once.
type ThreadHandle struct {
	done     chan struct{}
	panicErr *WorkerPanicError // written before done closes
}

// Join blocks until the worker's goroutine has exited. It returns a
// *WorkerPanicError if a job panicked, nil on a normal exit.
func (h *ThreadHandle) Join() error {
	<-h.done
	if h.panicErr != nil {
		return h.panicErr
	}
	return nil
}

// NewWorker creates a worker with the given id consuming from recv.
// The worker's goroutine is running by the time NewWorker returns.
func NewWorker(id int, recv *Receiver) *Worker {
	return newWorker(id, recv, logging.NewDefaultLogger(), nopObserver{})
}

func newWorker(id int, recv *Receiver, logger logging.Logger, obs Observer) *Worker {
	h := &ThreadHandle{done: make(chan struct{})}
	w := &Worker{id: id, handle: h}
	go w.run(recv, h, logger, obs)
	return w
}

// ID returns the worker's immutable id.
func (w *Worker) ID() int {
	return w.id
}

// TakeHandle transfers ownership of the worker's thread handle to the
// caller. The second and any later call returns ErrHandleTaken.
func (w *Worker) TakeHandle() (*ThreadHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle == nil {
		return nil, ErrHandleTaken
	}
	h := w.handle
	w.handle = nil
	return h, nil
}

func (w *Worker) run(recv *Receiver, h *ThreadHandle, logger logging.Logger, obs Observer) {
	defer close(h.done)
	defer func() {
		if r := recover(); r != nil {
			h.panicErr = &WorkerPanicError{
				WorkerID: w.id,
				Value:    r,
				Stack:    debug.Stack(),
			}
			obs.JobPanicked(w.id)
			logger.Errorf("worker %d: job panicked: %v", w.id, r)
		}
	}()

	for {
		job, ok := recv.Recv()
		if !ok {
			logger.Debugf("worker %d disconnected; shutting down", w.id)
			return
		}

		logger.Debugf("worker %d got a job; executing", w.id)
		obs.JobStarted(w.id)
		start := time.Now()
		job()
		obs.JobFinished(w.id, time.Since(start))
	}
}
