// Package sensors implements the platform probes for CPU frequency and
// temperature. Every probe maps its internal failures to an error return;
// the monitor treats any error as "reading absent", never as fatal.
package sensors

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/airmon1101/kiln/internal/ports"
)

// runCommand is swappable in tests.
var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Vcgencmd reads CPU telemetry through the Raspberry Pi firmware tool.
type Vcgencmd struct{}

func NewVcgencmd() *Vcgencmd { return &Vcgencmd{} }

func (v *Vcgencmd) Name() string { return "vcgencmd" }

// FrequencyMHz parses `vcgencmd measure_clock arm`, whose output has the
// form "frequency(48)=1500398464" (Hz).
func (v *Vcgencmd) FrequencyMHz() (float64, error) {
	out, err := runCommand("vcgencmd", "measure_clock", "arm")
	if err != nil {
		return 0, fmt.Errorf("measure_clock: %w", err)
	}
	return parseClock(string(out))
}

// TemperatureC parses `vcgencmd measure_temp`, whose output has the form
// "temp=52.1'C".
func (v *Vcgencmd) TemperatureC() (float64, error) {
	out, err := runCommand("vcgencmd", "measure_temp")
	if err != nil {
		return 0, fmt.Errorf("measure_temp: %w", err)
	}
	return parseTemp(string(out))
}

func parseClock(s string) (float64, error) {
	_, val, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return 0, fmt.Errorf("malformed clock output %q", strings.TrimSpace(s))
	}
	hz, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", val, err)
	}
	return hz / 1e6, nil
}

func parseTemp(s string) (float64, error) {
	_, val, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return 0, fmt.Errorf("malformed temp output %q", strings.TrimSpace(s))
	}
	val, _, _ = strings.Cut(val, "'")
	c, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed temp value %q: %w", val, err)
	}
	return c, nil
}

// Detect picks the vcgencmd probe when the firmware tool is on the PATH
// and falls back to the generic sysfs probe otherwise.
func Detect() ports.SensorProbe {
	if _, err := exec.LookPath("vcgencmd"); err == nil {
		return NewVcgencmd()
	}
	return NewSysfs()
}

var _ ports.SensorProbe = (*Vcgencmd)(nil)
