// Package observability wires structured logging (slog with a tint
// console handler) and Prometheus metrics behind the ports.Observability
// interface.
package observability

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/airmon1101/kiln/internal/ports"
)

type PromObs struct {
	log      *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the harness metrics on the default registry and
// builds a tinted slog logger at the given level.
func NewPromObs(level slog.Level) *PromObs {
	escalations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kiln_escalations_total",
		Help: "Phase/intensity escalations applied by the controller.",
	})
	samples := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kiln_samples_total",
		Help: "Telemetry samples emitted to the sink.",
	})
	sensorErrs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kiln_sensor_errors_total",
		Help: "Sensor reads that failed and were recorded as absent.",
	})
	workerPanics := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kiln_worker_panics_total",
		Help: "Stress workers lost to a panicking workload kernel.",
	})
	phase := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiln_phase",
		Help: "Current stress phase (1-4).",
	})
	intensity := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiln_intensity",
		Help: "Current stress intensity scalar.",
	})
	freq := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiln_cpu_frequency_mhz",
		Help: "Last observed CPU frequency in MHz.",
	})
	temp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiln_cpu_temperature_celsius",
		Help: "Last observed CPU temperature in degrees Celsius.",
	})
	usage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiln_cpu_usage_percent",
		Help: "Last observed CPU utilization percentage.",
	})
	load := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiln_load_average",
		Help: "Last observed 1-minute load average.",
	})
	sampleDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiln_sample_duration_seconds",
		Help:    "Time spent collecting one telemetry sample.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	prometheus.MustRegister(escalations, samples, sensorErrs, workerPanics,
		phase, intensity, freq, temp, usage, load, sampleDur)

	return &PromObs{
		log: slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		})),
		counters: map[string]prometheus.Counter{
			"kiln_escalations_total":   escalations,
			"kiln_samples_total":       samples,
			"kiln_sensor_errors_total": sensorErrs,
			"kiln_worker_panics_total": workerPanics,
		},
		gauges: map[string]prometheus.Gauge{
			"kiln_phase":                   phase,
			"kiln_intensity":               intensity,
			"kiln_cpu_frequency_mhz":       freq,
			"kiln_cpu_temperature_celsius": temp,
			"kiln_cpu_usage_percent":       usage,
			"kiln_load_average":            load,
		},
		histos: map[string]prometheus.Observer{
			"kiln_sample_duration_seconds": sampleDur,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.Info(msg, attrs(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.log.Error(msg, append(attrs(fields), slog.Any("err", err))...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func attrs(fields []ports.Field) []any {
	out := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
