// Package scheduler runs the periodic background jobs of the deposit
// server: the frequent duration refresh and the daily reminder scan. It
// replaces the UI event-loop timers of older deposit tooling with plain
// tickers and context cancellation.
package scheduler

import (
	"context"
	"sync"
	"time"

	"tiredepot/internal/logging"
)

// JobFunc is one unit of periodic work. Errors are logged and do not stop
// the next tick.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	run      JobFunc
}

// Scheduler drives registered jobs on independent tickers. Each job runs in
// its own goroutine and executes sequentially there, so two instances of
// the same job can never overlap; a tick arriving while the previous run is
// still executing is dropped by the ticker.
type Scheduler struct {
	logger logging.Logger
	jobs   []job
}

func New(logger logging.Logger) *Scheduler {
	return &Scheduler{logger: logger.With("module", "scheduler")}
}

// Add registers a named job with its interval. Must be called before Run.
func (s *Scheduler) Add(name string, interval time.Duration, run JobFunc) {
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Run starts all registered jobs and blocks until ctx is cancelled and
// every job goroutine has stopped. Each job fires once immediately on
// start, then on every tick.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			s.runJob(ctx, j)
		}(j)
	}
	wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, j job) {
	log := s.logger.With("job", j.name)
	log.Info(ctx, "job started", "interval", j.interval.String())

	s.tick(ctx, j, log)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx, j, log)
		case <-ctx.Done():
			log.Info(ctx, "job stopped")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, j job, log logging.Logger) {
	if ctx.Err() != nil {
		return
	}
	if err := j.run(ctx); err != nil {
		log.Error(ctx, "job run failed", "error", err.Error())
	}
}
