package stress

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/airmon1101/kiln/internal/ports"
)

// Worker is one CPU-bound execution unit, conceptually pinned to a core.
// It loops forever re-reading the shared state and running the generator
// selected by the current phase; it only stops when told to from outside.
type Worker struct {
	id     int
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Stop terminates the worker and waits for its loop to exit. Safe to call
// more than once; termination is issued exactly once.
func (w *Worker) Stop() {
	w.once.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
}

func (w *Worker) run(ctx context.Context, box *StateBox, table ports.WorkloadTable, obs ports.Observability) {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			// A crashed worker stops contributing load; the harness keeps
			// running with the remaining workers.
			obs.IncCounter("kiln_worker_panics_total", 1)
			obs.LogError("worker_panicked", fmt.Errorf("worker %d: %v", w.id, r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		state := box.Load()
		gen := table.Generator(state.Phase)
		if gen == nil {
			runtime.Gosched()
			continue
		}
		gen(state.Intensity)
	}
}

// Pool owns one worker per core and the only handles that can stop them.
type Pool struct {
	box     *StateBox
	table   ports.WorkloadTable
	obs     ports.Observability
	workers []*Worker
}

func NewPool(box *StateBox, table ports.WorkloadTable, obs ports.Observability) *Pool {
	return &Pool{box: box, table: table, obs: obs}
}

// Start spawns n workers sharing the pool's state box. The harness
// stresses all cores or none: n < 1 is a startup error, and a pool is
// started at most once.
func (p *Pool) Start(n int) error {
	if n < 1 {
		return fmt.Errorf("worker count must be >= 1, got %d", n)
	}
	if len(p.workers) > 0 {
		return fmt.Errorf("pool already started")
	}

	p.workers = make([]*Worker, n)
	for i := 0; i < n; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		w := &Worker{id: i, cancel: cancel}
		w.wg.Add(1)
		go w.run(ctx, p.box, p.table, p.obs)
		p.workers[i] = w
	}
	return nil
}

// Stop terminates every worker exactly once and waits for all of them.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
}

// Size returns the number of spawned workers.
func (p *Pool) Size() int {
	return len(p.workers)
}
