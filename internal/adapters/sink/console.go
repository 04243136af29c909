// Package sink implements the textual output stream the monitor writes
// telemetry records to.
package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/airmon1101/kiln/internal/domain"
	"github.com/airmon1101/kiln/internal/ports"
)

const absentMarker = "n/a"

// Console writes one log line per telemetry sample plus lifecycle event
// lines. Safe for use from the control loop and the harness concurrently.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) WriteSample(s *domain.TelemetrySample) error {
	freq := absentMarker
	if s.HasFreq {
		freq = fmt.Sprintf("%.1f", s.FreqMHz)
	}
	temp := absentMarker
	if s.HasTemp {
		temp = fmt.Sprintf("%.1f", s.TempC)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "Phase: %d | Intensity: %d | CPU Freq: %s MHz | CPU Temp: %s°C | Usage: %.1f%% | Load: %.2f, %.2f, %.2f\n",
		s.Phase, s.Intensity, freq, temp, s.UsagePct, s.Load1, s.Load5, s.Load15)
	return err
}

func (c *Console) WriteEvent(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, msg)
	return err
}

var _ ports.Sink = (*Console)(nil)
