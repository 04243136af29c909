package kiln

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Stress.Workers = 2
	cfg.Stress.PhaseDuration = 50 * time.Millisecond
	cfg.Stress.ControlInterval = 5 * time.Millisecond
	cfg.Telemetry.LogInterval = 10 * time.Millisecond
	cfg.Telemetry.UsageWindow = time.Millisecond
	return cfg
}

func TestNewWithCustomAdapters(t *testing.T) {
	sinkStub := &recordingSink{}
	probeStub := &stubProbe{freq: 1500, temp: 52.1}
	statsStub := &stubStats{}
	obsStub := &stubObservability{}
	table := WorkloadTable{1: func(int) {}}

	h, err := New(testConfig(),
		WithSink(sinkStub),
		WithSensorProbe(probeStub),
		WithSystemStats(statsStub),
		WithObservability(obsStub),
		WithWorkloads(table),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if h.sink != Sink(sinkStub) {
		t.Fatalf("expected custom sink to be used")
	}
	if h.probe != SensorProbe(probeStub) {
		t.Fatalf("expected custom probe to be used")
	}
	if h.stats != SystemStats(statsStub) {
		t.Fatalf("expected custom stats to be used")
	}
	if h.obs != Observability(obsStub) {
		t.Fatalf("expected custom observability to be used")
	}
	if h.table.Generator(1) == nil {
		t.Fatalf("expected custom workload table to be used")
	}
}

func TestNewRejectsNilOrInvalidConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg := testConfig()
	cfg.Stress.MaxPhase = 99
	if _, err := New(cfg, WithObservability(&stubObservability{})); err == nil {
		t.Fatalf("expected error for invalid config")
	}
}

func TestWorkersDefaultsToCoreCount(t *testing.T) {
	cfg := testConfig()
	cfg.Stress.Workers = 0
	h, err := New(cfg, WithObservability(&stubObservability{}), WithSink(&recordingSink{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.Workers() < 1 {
		t.Fatalf("expected at least one worker, got %d", h.Workers())
	}
}

func TestRunLifecycle(t *testing.T) {
	var iterations atomic.Int64
	table := WorkloadTable{
		1: func(int) { iterations.Add(1) },
		2: func(int) { iterations.Add(1) },
		3: func(int) { iterations.Add(1) },
		4: func(int) { iterations.Add(1) },
	}

	sinkStub := &recordingSink{}
	h, err := New(testConfig(),
		WithSink(sinkStub),
		WithSensorProbe(&stubProbe{freq: 700, temp: 48.5}),
		WithSystemStats(&stubStats{usage: 99.9, loads: [3]float64{1, 2, 3}}),
		WithObservability(&stubObservability{}),
		WithWorkloads(table),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := h.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if iterations.Load() == 0 {
		t.Fatalf("expected workers to execute workload iterations")
	}

	events := sinkStub.Events()
	if len(events) < 2 {
		t.Fatalf("expected startup and shutdown events, got %v", events)
	}
	if !strings.Contains(events[0], "Detected") || !strings.Contains(events[0], "Starting gradual stress test") {
		t.Fatalf("unexpected startup event: %q", events[0])
	}
	if events[len(events)-1] != "Stopping test..." {
		t.Fatalf("unexpected final event: %q", events[len(events)-1])
	}

	if sinkStub.SampleCount() == 0 {
		t.Fatalf("expected at least one telemetry sample during the run")
	}
}

func TestStartTwiceFails(t *testing.T) {
	h, err := New(testConfig(),
		WithSink(&recordingSink{}),
		WithSensorProbe(&stubProbe{}),
		WithSystemStats(&stubStats{}),
		WithObservability(&stubObservability{}),
		WithWorkloads(WorkloadTable{1: func(int) {}}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := h.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = h.Shutdown(ctx)
	}()

	if err := h.Start(); err == nil {
		t.Fatalf("expected second Start to fail")
	}
}

type recordingSink struct {
	mu      sync.Mutex
	samples []TelemetrySample
	events  []string
}

func (r *recordingSink) WriteSample(s *TelemetrySample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, *s)
	return nil
}

func (r *recordingSink) WriteEvent(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, msg)
	return nil
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingSink) SampleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

type stubProbe struct {
	freq float64
	temp float64
}

func (p *stubProbe) FrequencyMHz() (float64, error) { return p.freq, nil }
func (p *stubProbe) TemperatureC() (float64, error) { return p.temp, nil }
func (p *stubProbe) Name() string                   { return "stub" }

type stubStats struct {
	usage float64
	loads [3]float64
}

func (s *stubStats) LoadAverage() (float64, float64, float64, error) {
	return s.loads[0], s.loads[1], s.loads[2], nil
}

func (s *stubStats) UtilizationPercent(time.Duration) (float64, error) {
	return s.usage, nil
}

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field)         {}
func (s *stubObservability) LogError(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)       {}
func (s *stubObservability) SetGauge(string, float64)         {}
func (s *stubObservability) ObserveLatency(string, float64)   {}
