package kiln

import (
	"context"

	base "github.com/airmon1101/kiln/pkg/kiln"
)

// Re-exported errors for convenience.
var (
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Type aliases so consumers can import github.com/airmon1101/kiln directly.
type (
	Config          = base.Config
	StressConfig    = base.StressConfig
	TelemetryConfig = base.TelemetryConfig
	MetricsConfig   = base.MetricsConfig
	LoggingConfig   = base.LoggingConfig
	Harness         = base.Harness
	HarnessOption   = base.HarnessOption
	StressState     = base.StressState
	TelemetrySample = base.TelemetrySample
	Sink            = base.Sink
	SensorProbe     = base.SensorProbe
	SystemStats     = base.SystemStats
	Observability   = base.Observability
	Field           = base.Field
	Generator       = base.Generator
	WorkloadTable   = base.WorkloadTable
	SampleFunc      = base.SampleFunc
	EventFunc       = base.EventFunc
)

// MaxPhase is the highest difficulty tier a workload table covers.
const MaxPhase = base.MaxPhase

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Harness construction and options.
func New(cfg *Config, opts ...HarnessOption) (*Harness, error) {
	return base.New(cfg, opts...)
}

func WithSink(s Sink) HarnessOption {
	return base.WithSink(s)
}

func WithSensorProbe(p SensorProbe) HarnessOption {
	return base.WithSensorProbe(p)
}

func WithSystemStats(s SystemStats) HarnessOption {
	return base.WithSystemStats(s)
}

func WithObservability(obs Observability) HarnessOption {
	return base.WithObservability(obs)
}

func WithWorkloads(t WorkloadTable) HarnessOption {
	return base.WithWorkloads(t)
}

// Run is a shortcut: build a harness from cfg (or the defaults when cfg
// is nil) and drive it until ctx is cancelled.
func Run(ctx context.Context, cfg *Config, opts ...HarnessOption) error {
	if cfg == nil {
		cfg = base.DefaultConfig()
	}
	h, err := base.New(cfg, opts...)
	if err != nil {
		return err
	}
	return h.Run(ctx)
}

// Sink adapters.
func NewCallbackSink(name string, onSample SampleFunc, onEvent EventFunc) Sink {
	return base.NewCallbackSink(name, onSample, onEvent)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan TelemetrySample, func()) {
	return base.NewChannelSink(name, buffer)
}
