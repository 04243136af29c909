package ports

import "time"

// SystemStats exposes the OS-provided load and utilization figures the
// monitor samples alongside the sensor readings.
type SystemStats interface {
	// LoadAverage returns the 1, 5, and 15 minute load averages.
	LoadAverage() (l1, l5, l15 float64, err error)
	// UtilizationPercent measures instantaneous CPU utilization over the
	// given window. It blocks the caller for roughly that long.
	UtilizationPercent(window time.Duration) (float64, error)
}
