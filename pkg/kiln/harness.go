package kiln

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/airmon1101/kiln/internal/adapters/observability"
	"github.com/airmon1101/kiln/internal/adapters/sensors"
	consolesink "github.com/airmon1101/kiln/internal/adapters/sink"
	"github.com/airmon1101/kiln/internal/adapters/sysstat"
	"github.com/airmon1101/kiln/internal/adapters/workload"
	"github.com/airmon1101/kiln/internal/app/stress"
	"github.com/airmon1101/kiln/internal/ports"
)

// HarnessOption customizes the dependencies used by Harness.
type HarnessOption func(*harnessOverrides)

type harnessOverrides struct {
	sink  Sink
	probe SensorProbe
	stats SystemStats
	obs   Observability
	table WorkloadTable
}

// WithSink redirects the telemetry stream (files, test capture, remote
// shippers) away from the default console sink.
func WithSink(s Sink) HarnessOption {
	return func(o *harnessOverrides) {
		o.sink = s
	}
}

// WithSensorProbe injects a custom frequency/temperature probe.
func WithSensorProbe(p SensorProbe) HarnessOption {
	return func(o *harnessOverrides) {
		o.probe = p
	}
}

// WithSystemStats injects a custom load/utilization source.
func WithSystemStats(s SystemStats) HarnessOption {
	return func(o *harnessOverrides) {
		o.stats = s
	}
}

// WithObservability plugs in a custom metrics/logging backend.
func WithObservability(obs Observability) HarnessOption {
	return func(o *harnessOverrides) {
		o.obs = obs
	}
}

// WithWorkloads replaces the built-in kernel dispatch table.
func WithWorkloads(t WorkloadTable) HarnessOption {
	return func(o *harnessOverrides) {
		o.table = t
	}
}

// Harness supervises the whole stress run: it spawns one worker per
// core, drives the escalation controller and the telemetry monitor from
// a single control loop, and tears everything down on interrupt.
type Harness struct {
	cfg   *Config
	sink  ports.Sink
	probe ports.SensorProbe
	stats ports.SystemStats
	obs   ports.Observability
	table ports.WorkloadTable

	box        *stress.StateBox
	pool       *stress.Pool
	controller *stress.Controller
	monitor    *stress.Monitor

	metricsSrv *http.Server
	stopLoop   context.CancelFunc
	loopDone   chan struct{}
	started    bool
}

// New wires the default adapters (console sink, auto-detected sensor
// probe, Linux sysstat, built-in workload table, slog+Prometheus
// observability). HarnessOption values override any dependency.
func New(cfg *Config, opts ...HarnessOption) (*Harness, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides harnessOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.obs
	if obs == nil {
		obs = observability.NewPromObs(parseLevel(cfg.Logging.Level))
	}

	snk := overrides.sink
	if snk == nil {
		snk = consolesink.NewConsole(os.Stdout)
	}

	probe := overrides.probe
	if probe == nil {
		probe = sensors.Detect()
	}

	stats := overrides.stats
	if stats == nil {
		stats = sysstat.NewLinux()
	}

	table := overrides.table
	if tableEmpty(table) {
		table = workload.Table()
	}

	box := stress.NewStateBox()
	return &Harness{
		cfg:   cfg,
		sink:  snk,
		probe: probe,
		stats: stats,
		obs:   obs,
		table: table,
		box:   box,
		pool:  stress.NewPool(box, table, obs),
	}, nil
}

// Workers returns the effective pool size: the configured count, or one
// worker per detected CPU core.
func (h *Harness) Workers() int {
	if h.cfg.Stress.Workers > 0 {
		return h.cfg.Stress.Workers
	}
	return runtime.NumCPU()
}

// Start announces the run, spawns the worker pool, and launches the
// control loop. It returns immediately; call Run to block on a context.
// A spawn failure is fatal: the harness stresses all cores or none.
func (h *Harness) Start() error {
	if h == nil {
		return fmt.Errorf("harness is nil")
	}
	if h.started {
		return fmt.Errorf("harness already started")
	}

	n := h.Workers()
	if err := h.sink.WriteEvent(fmt.Sprintf("Detected %d CPU cores. Starting gradual stress test...", n)); err != nil {
		h.obs.LogError("startup_event_write_failed", err)
	}
	h.obs.LogInfo("starting stress harness",
		ports.Field{Key: "workers", Value: n},
		ports.Field{Key: "phase_duration", Value: h.cfg.Stress.PhaseDuration},
		ports.Field{Key: "sensor", Value: h.probe.Name()})

	now := time.Now()
	h.controller = stress.NewController(h.box, h.sink, h.obs, h.cfg.Stress.PhaseDuration, h.cfg.Stress.MaxPhase, now)
	h.monitor = stress.NewMonitor(h.box, h.probe, h.stats, h.sink, h.obs, h.cfg.Telemetry.LogInterval, h.cfg.Telemetry.UsageWindow, now)

	if err := h.pool.Start(n); err != nil {
		return fmt.Errorf("spawn workers: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	h.stopLoop = cancel
	h.loopDone = make(chan struct{})
	go h.controlLoop(loopCtx)

	h.startMetrics()
	h.started = true
	return nil
}

// Run starts the harness and blocks until the provided context is
// cancelled, then performs a coordinated shutdown. A context cancelled
// by an interrupt is the normal way to stop; it is not an error.
func (h *Harness) Run(ctx context.Context) error {
	if err := h.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.Shutdown(shutdownCtx)
}

// Shutdown stops the control loop, terminates every worker exactly once,
// and closes the optional metrics server.
func (h *Harness) Shutdown(ctx context.Context) error {
	var errs []error

	if h.stopLoop != nil {
		h.stopLoop()
		select {
		case <-h.loopDone:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if err := h.sink.WriteEvent("Stopping test..."); err != nil {
		errs = append(errs, err)
	}

	h.pool.Stop()

	if h.metricsSrv != nil {
		if err := h.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	h.obs.LogInfo("stress harness stopped")
	return errors.Join(errs...)
}

// controlLoop interleaves controller ticks and monitor samples. Its only
// blocking points are the fixed sleep between iterations and the short
// utilization window inside Sample, so it stays responsive to shutdown.
func (h *Harness) controlLoop(ctx context.Context) {
	defer close(h.loopDone)

	ticker := time.NewTicker(h.cfg.Stress.ControlInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.controller.Tick(now)
			h.monitor.Sample(now)
		}
	}
}

func (h *Harness) startMetrics() {
	if h.cfg.Metrics.Addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h.metricsSrv = &http.Server{
		Addr:    h.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := h.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.obs.LogError("metrics server exited", err)
		}
	}()
}

func tableEmpty(t ports.WorkloadTable) bool {
	for _, gen := range t {
		if gen != nil {
			return false
		}
	}
	return true
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
