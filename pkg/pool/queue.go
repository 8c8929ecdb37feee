package pool

import "sync"

// workQueue is an unbounded FIFO of jobs shared by one Sender and one
// Receiver. The mutex is held only for enqueue/dequeue, never across job
// execution.
type workQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []Job
	closed bool
}

// Sender is the producing half of a work queue. It is safe for concurrent
// use by multiple producers.
type Sender struct {
	q *workQueue
}

// Receiver is the consuming half of a work queue. A single Receiver is
// shared by all workers; its internal lock enforces one dequeue at a time.
type Receiver struct {
	q *workQueue
}

// NewQueue creates an unbounded multi-producer, single-consumer job queue
// and returns its two endpoints.
func NewQueue() (*Sender, *Receiver) {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return &Sender{q: q}, &Receiver{q: q}
}

// Send enqueues a job. It never blocks; the queue grows as needed.
// Returns ErrClosed if Close has been called.
func (s *Sender) Send(job Job) error {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.jobs = append(q.jobs, job)
	q.cond.Signal()
	return nil
}

// Close marks the queue as closed and wakes all blocked receivers.
// Jobs already enqueued remain receivable; Close is idempotent.
func (s *Sender) Close() {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Recv blocks until a job is available and returns (job, true), or until
// the queue is closed and drained and returns (nil, false). The lock is
// released before the returned job runs, so workers execute in parallel
// even though dequeues are serialized.
func (r *Receiver) Recv() (Job, bool) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.jobs) == 0 {
		return nil, false
	}

	job := q.jobs[0]
	q.jobs[0] = nil // release the closure for GC
	q.jobs = q.jobs[1:]
	return job, true
}

// Len returns the number of jobs currently queued.
func (r *Receiver) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.jobs)
}
