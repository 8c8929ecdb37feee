package prometheus

import (
	"time"

	"github.com/spoolio/spool/pkg/pool"
)

// PoolObserver adapts a Metrics collection to the pool.Observer interface.
type PoolObserver struct {
	m *Metrics
}

var _ pool.Observer = (*PoolObserver)(nil)

// Observer returns a pool.Observer recording into this metrics collection.
func (m *Metrics) Observer() *PoolObserver {
	return &PoolObserver{m: m}
}

func (o *PoolObserver) JobSubmitted() {
	o.m.JobsSubmitted.Inc()
	o.m.QueueDepth.Inc()
}

func (o *PoolObserver) JobStarted(workerID int) {
	o.m.QueueDepth.Dec()
	o.m.BusyWorkers.Inc()
}

func (o *PoolObserver) JobFinished(workerID int, d time.Duration) {
	o.m.BusyWorkers.Dec()
	o.m.JobsCompleted.Inc()
	o.m.JobDuration.Observe(d.Seconds())
}

func (o *PoolObserver) JobPanicked(workerID int) {
	o.m.BusyWorkers.Dec()
	o.m.JobPanics.Inc()
}
