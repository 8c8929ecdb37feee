package pool

// Job is a one-shot, argument-less unit of work submitted to the pool.
// A Job captures its own state, is executed exactly once by exactly one
// worker, and returns nothing. Whatever shared state a Job closure touches
// is the Job's own responsibility to guard.
type Job func()
