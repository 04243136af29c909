package kiln

import (
	"github.com/airmon1101/kiln/internal/app/config"
)

// Config re-exports the root configuration struct so embedding projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// StressConfig controls escalation timing and the worker pool.
	StressConfig = config.StressConfig
	// TelemetryConfig controls the monitor's sampling cadence.
	TelemetryConfig = config.TelemetryConfig
	// MetricsConfig configures the optional Prometheus endpoint.
	MetricsConfig = config.MetricsConfig
	// LoggingConfig selects the log level.
	LoggingConfig = config.LoggingConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the built-in defaults; no file is required.
func DefaultConfig() *Config {
	return config.Default()
}
