package stress

import (
	"time"

	"github.com/airmon1101/kiln/internal/domain"
	"github.com/airmon1101/kiln/internal/ports"
)

// Monitor samples sensor and OS telemetry at a fixed cadence and emits
// one record per interval to the sink. Sensor failures are absorbed: a
// failed reading is marked absent and the rest of the sample still goes
// out. The monitor must never stall or crash the harness.
type Monitor struct {
	box    *StateBox
	probe  ports.SensorProbe
	stats  ports.SystemStats
	sink   ports.Sink
	obs    ports.Observability
	every  time.Duration
	window time.Duration

	lastLog time.Time
}

// NewMonitor builds a monitor that emits at most one sample per `every`
// and measures utilization over `window` (which briefly blocks Sample).
func NewMonitor(box *StateBox, probe ports.SensorProbe, stats ports.SystemStats, sink ports.Sink, obs ports.Observability, every, window time.Duration, start time.Time) *Monitor {
	return &Monitor{
		box:    box,
		probe:  probe,
		stats:  stats,
		sink:   sink,
		obs:    obs,
		every:  every,
		window: window,
		// Seeded one interval back so the first control-loop pass emits.
		lastLog: start.Add(-every),
	}
}

// Sample emits a telemetry record when a full interval has elapsed since
// the previous one. Returns whether a record was written.
func (m *Monitor) Sample(now time.Time) bool {
	if now.Sub(m.lastLog) < m.every {
		return false
	}
	m.lastLog = now

	began := time.Now()
	s := m.collect(now)

	if err := m.sink.WriteSample(s); err != nil {
		m.obs.LogError("sample_write_failed", err)
	}
	m.obs.IncCounter("kiln_samples_total", 1)
	m.obs.ObserveLatency("kiln_sample_duration_seconds", time.Since(began).Seconds())
	m.publishGauges(s)
	return true
}

func (m *Monitor) collect(now time.Time) *domain.TelemetrySample {
	state := m.box.Load()
	s := &domain.TelemetrySample{
		Timestamp: now,
		Phase:     state.Phase,
		Intensity: state.Intensity,
	}

	if freq, err := m.probe.FrequencyMHz(); err == nil {
		s.FreqMHz = freq
		s.HasFreq = true
	} else {
		m.obs.IncCounter("kiln_sensor_errors_total", 1)
	}
	if temp, err := m.probe.TemperatureC(); err == nil {
		s.TempC = temp
		s.HasTemp = true
	} else {
		m.obs.IncCounter("kiln_sensor_errors_total", 1)
	}

	if l1, l5, l15, err := m.stats.LoadAverage(); err == nil {
		s.Load1, s.Load5, s.Load15 = l1, l5, l15
	} else {
		m.obs.LogError("load_average_failed", err)
	}
	if usage, err := m.stats.UtilizationPercent(m.window); err == nil {
		s.UsagePct = usage
	} else {
		m.obs.LogError("cpu_utilization_failed", err)
	}

	return s
}

func (m *Monitor) publishGauges(s *domain.TelemetrySample) {
	m.obs.SetGauge("kiln_phase", float64(s.Phase))
	m.obs.SetGauge("kiln_intensity", float64(s.Intensity))
	m.obs.SetGauge("kiln_cpu_usage_percent", s.UsagePct)
	m.obs.SetGauge("kiln_load_average", s.Load1)
	if s.HasFreq {
		m.obs.SetGauge("kiln_cpu_frequency_mhz", s.FreqMHz)
	}
	if s.HasTemp {
		m.obs.SetGauge("kiln_cpu_temperature_celsius", s.TempC)
	}
}
