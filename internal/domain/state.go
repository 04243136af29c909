package domain

import "time"

// StressState is the difficulty level shared between the escalation
// controller and every stress worker. Values are immutable snapshots;
// the controller publishes a fresh one on each escalation.
type StressState struct {
	// Phase selects which workload kernel the workers run (1..4).
	Phase int
	// Intensity scales the kernel's workload size within its phase.
	Intensity int
}

// TelemetrySample is one point-in-time snapshot of system telemetry,
// produced by the monitor and handed to the sink. Frequency and
// temperature are optional: platform support varies, and an unsupported
// reading is not an error.
type TelemetrySample struct {
	Timestamp time.Time
	Phase     int
	Intensity int

	FreqMHz float64
	HasFreq bool

	TempC   float64
	HasTemp bool

	UsagePct float64

	Load1  float64
	Load5  float64
	Load15 float64
}
