// Package pool implements a fixed-size worker pool over an unbounded
// multi-producer, single-consumer job queue.
//
// The pool accepts opaque, one-shot jobs from any number of producers and
// executes each exactly once on one of a bounded set of workers. Shutdown is
// explicit and blocking: it closes the intake, then joins every worker in
// construction order, so every job accepted before shutdown began is
// guaranteed to run before Shutdown returns.
//
// Jobs submitted by a single producer are delivered to the queue in
// submission order, but the pool gives no guarantee about which worker runs
// which job or about completion order across workers.
package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spoolio/spool/pkg/logging"
)

// Config configures a Pool.
type Config struct {
	// Size is the number of workers. Must be at least 1.
	Size int

	// Logger receives pool and worker lifecycle messages.
	// Defaults to logging.NewDefaultLogger.
	Logger logging.Logger

	// Observer receives job lifecycle notifications. Defaults to a no-op.
	Observer Observer
}

// Pool owns a fixed set of workers sharing one queue receiver, plus the
// queue's sending endpoint. The sender is a one-shot slot: it is
// relinquished exactly once when shutdown begins.
type Pool struct {
	workers  []*Worker
	logger   logging.Logger
	observer Observer

	mu     sync.Mutex
	sender *Sender // nil once shutdown has begun

	shutdownOnce sync.Once
	shutdownDone chan struct{}
	shutdownErr  error
}

// New creates a pool with size workers, all running by the time New
// returns. Returns ErrInvalidSize when size < 1.
func New(size int) (*Pool, error) {
	return NewWithConfig(Config{Size: size})
}

// NewWithConfig creates a pool from an explicit configuration.
func NewWithConfig(config Config) (*Pool, error) {
	if config.Size < 1 {
		return nil, ErrInvalidSize
	}
	if config.Logger == nil {
		config.Logger = logging.NewDefaultLogger()
	}
	if config.Observer == nil {
		config.Observer = nopObserver{}
	}

	sender, receiver := NewQueue()

	workers := make([]*Worker, 0, config.Size)
	for id := 0; id < config.Size; id++ {
		workers = append(workers, newWorker(id, receiver, config.Logger, config.Observer))
	}

	return &Pool{
		workers:      workers,
		logger:       config.Logger,
		observer:     config.Observer,
		sender:       sender,
		shutdownDone: make(chan struct{}),
	}, nil
}

// Submit enqueues a job for execution by some worker. It never blocks:
// the queue is unbounded. Returns ErrClosed once shutdown has begun;
// the caller must not retry against this pool.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	sender := p.sender
	p.mu.Unlock()

	if sender == nil {
		return ErrClosed
	}
	if err := sender.Send(job); err != nil {
		return err
	}
	p.observer.JobSubmitted()
	return nil
}

// Shutdown closes the intake and joins every worker in construction order.
// It returns only after all queued jobs have run and all workers have
// exited. Worker panics collected during the joins are aggregated into the
// returned error; nil means every worker exited cleanly.
//
// Shutdown is irreversible and idempotent: later calls block until the
// first completes and return its result.
func (p *Pool) Shutdown() error {
	p.shutdownOnce.Do(func() {
		defer close(p.shutdownDone)

		p.mu.Lock()
		sender := p.sender
		p.sender = nil
		p.mu.Unlock()

		sender.Close()

		var errs []error
		for _, w := range p.workers {
			p.logger.Debugf("shutting down worker %d", w.ID())

			handle, err := w.TakeHandle()
			if err != nil {
				errs = append(errs, fmt.Errorf("worker %d: %w", w.ID(), err))
				continue
			}
			if err := handle.Join(); err != nil {
				errs = append(errs, err)
			}
		}
		p.shutdownErr = errors.Join(errs...)
	})

	<-p.shutdownDone
	return p.shutdownErr
}

// Workers returns the fixed number of workers in the pool.
func (p *Pool) Workers() int {
	return len(p.workers)
}
