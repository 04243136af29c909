package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/airmon1101/kiln/internal/ports"
)

type Config struct {
	Stress    StressConfig    `yaml:"stress"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StressConfig controls the escalation state machine and the worker pool.
type StressConfig struct {
	// Workers is the pool size; 0 means one worker per CPU core.
	Workers int `yaml:"workers"`
	// PhaseDuration is how long each phase runs before escalating.
	PhaseDuration time.Duration `yaml:"phase_duration"`
	// MaxPhase caps the phase; intensity keeps growing past it.
	MaxPhase int `yaml:"max_phase"`
	// ControlInterval is the control loop's sleep between iterations.
	ControlInterval time.Duration `yaml:"control_interval"`
}

// TelemetryConfig controls the monitor's sampling cadence.
type TelemetryConfig struct {
	LogInterval time.Duration `yaml:"log_interval"`
	// UsageWindow is the blocking window used to measure utilization.
	UsageWindow time.Duration `yaml:"usage_window"`
}

// MetricsConfig configures the optional Prometheus endpoint. An empty
// address keeps the harness fully offline.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration; the harness runs without
// any config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Stress.PhaseDuration == 0 {
		c.Stress.PhaseDuration = 30 * time.Second
	}
	if c.Stress.MaxPhase == 0 {
		c.Stress.MaxPhase = ports.MaxPhase
	}
	if c.Stress.ControlInterval == 0 {
		c.Stress.ControlInterval = 200 * time.Millisecond
	}
	if c.Telemetry.LogInterval == 0 {
		c.Telemetry.LogInterval = time.Second
	}
	if c.Telemetry.UsageWindow == 0 {
		c.Telemetry.UsageWindow = 100 * time.Millisecond
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Stress.Workers < 0 {
		return fmt.Errorf("stress.workers must be >= 0")
	}
	if c.Stress.PhaseDuration <= 0 {
		return fmt.Errorf("stress.phase_duration must be > 0")
	}
	if c.Stress.MaxPhase < 1 || c.Stress.MaxPhase > ports.MaxPhase {
		return fmt.Errorf("stress.max_phase must be in [1, %d]", ports.MaxPhase)
	}
	if c.Stress.ControlInterval <= 0 {
		return fmt.Errorf("stress.control_interval must be > 0")
	}
	if c.Telemetry.LogInterval <= 0 {
		return fmt.Errorf("telemetry.log_interval must be > 0")
	}
	if c.Telemetry.UsageWindow <= 0 {
		return fmt.Errorf("telemetry.usage_window must be > 0")
	}
	if c.Telemetry.UsageWindow >= c.Telemetry.LogInterval {
		return fmt.Errorf("telemetry.usage_window must be shorter than log_interval")
	}
	return nil
}
