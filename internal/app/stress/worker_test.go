package stress

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/airmon1101/kiln/internal/domain"
	"github.com/airmon1101/kiln/internal/ports"
)

func TestPoolDispatchesCurrentPhaseGenerator(t *testing.T) {
	box := NewStateBox()
	box.Publish(domain.StressState{Phase: 3, Intensity: 2})

	var calls atomic.Int64
	var lastIntensity atomic.Int64
	table := ports.WorkloadTable{
		3: func(intensity int) {
			calls.Add(1)
			lastIntensity.Store(int64(intensity))
		},
	}

	pool := NewPool(box, table, &nopObs{})
	if err := pool.Start(2); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pool.Stop()

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatalf("generator for phase 3 never ran")
	}
	if got := lastIntensity.Load(); got != 2 {
		t.Fatalf("generator received intensity %d, want 2", got)
	}
}

func TestPoolOutOfRangePhaseIsNoop(t *testing.T) {
	box := NewStateBox()
	box.Publish(domain.StressState{Phase: 9, Intensity: 1})

	var calls atomic.Int64
	table := ports.WorkloadTable{1: func(int) { calls.Add(1) }}

	pool := NewPool(box, table, &nopObs{})
	if err := pool.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	pool.Stop()

	if calls.Load() != 0 {
		t.Fatalf("no generator should run for an unknown phase")
	}
}

func TestPoolStartValidation(t *testing.T) {
	pool := NewPool(NewStateBox(), ports.WorkloadTable{1: func(int) {}}, &nopObs{})
	if err := pool.Start(0); err == nil {
		t.Fatalf("expected error for zero workers")
	}
	if err := pool.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pool.Stop()
	if err := pool.Start(1); err == nil {
		t.Fatalf("expected error for double start")
	}
	if pool.Size() != 1 {
		t.Fatalf("Size = %d, want 1", pool.Size())
	}
}

func TestPoolStopIsIdempotent(t *testing.T) {
	pool := NewPool(NewStateBox(), ports.WorkloadTable{1: func(int) {}}, &nopObs{})
	if err := pool.Start(3); err != nil {
		t.Fatalf("Start: %v", err)
	}

	pool.Stop()
	// A second Stop must return immediately without panicking or hanging.
	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("second Stop hung")
	}
}

func TestWorkerPanicIsContained(t *testing.T) {
	box := NewStateBox()
	obs := &countingObs{}
	table := ports.WorkloadTable{1: func(int) { panic("kernel blew up") }}

	pool := NewPool(box, table, obs)
	if err := pool.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for obs.counter("kiln_worker_panics_total") == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	pool.Stop()

	if obs.counter("kiln_worker_panics_total") != 1 {
		t.Fatalf("panic counter = %v, want 1", obs.counter("kiln_worker_panics_total"))
	}
}

type countingObs struct {
	nopObs
	mu       sync.Mutex
	counters map[string]float64
}

func (c *countingObs) IncCounter(name string, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counters == nil {
		c.counters = make(map[string]float64)
	}
	c.counters[name] += v
}

func (c *countingObs) counter(name string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}
