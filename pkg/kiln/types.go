package kiln

import (
	"github.com/airmon1101/kiln/internal/domain"
	"github.com/airmon1101/kiln/internal/ports"
)

// StressState is the phase/intensity pair shared between the controller
// and the workers. Exported so custom adapters can reference it.
type StressState = domain.StressState

// TelemetrySample is one snapshot of frequency, temperature, utilization,
// and load-average telemetry.
type TelemetrySample = domain.TelemetrySample

// Sink consumes the telemetry stream: samples plus lifecycle events.
type Sink = ports.Sink

// SensorProbe queries platform-specific frequency/temperature readings.
type SensorProbe = ports.SensorProbe

// SystemStats exposes OS load-average and utilization figures.
type SystemStats = ports.SystemStats

// Observability emits metrics and structured logs about the run.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Generator is one CPU-bound workload kernel, scaled by intensity.
type Generator = ports.Generator

// WorkloadTable maps phases to generators.
type WorkloadTable = ports.WorkloadTable

// MaxPhase is the highest difficulty tier.
const MaxPhase = ports.MaxPhase
