package ports

import "github.com/airmon1101/kiln/internal/domain"

// Sink receives the live telemetry stream: one record per sample plus
// the harness lifecycle events (startup, escalation, shutdown).
type Sink interface {
	WriteSample(s *domain.TelemetrySample) error
	WriteEvent(msg string) error
	Name() string
}
