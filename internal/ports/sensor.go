package ports

// SensorProbe queries platform-specific CPU telemetry. Implementations
// return an error when the platform cannot produce a reading; callers
// treat any error as "reading absent", never as fatal.
type SensorProbe interface {
	FrequencyMHz() (float64, error)
	TemperatureC() (float64, error)
	Name() string
}
