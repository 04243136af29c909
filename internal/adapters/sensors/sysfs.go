package sensors

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/airmon1101/kiln/internal/ports"
)

const (
	defaultFreqPath = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"
	defaultTempPath = "/sys/class/thermal/thermal_zone0/temp"
)

// Sysfs reads CPU telemetry from the Linux sysfs interfaces: cpufreq
// reports kHz, the thermal zone reports millidegrees Celsius.
type Sysfs struct {
	freqPath string
	tempPath string
}

func NewSysfs() *Sysfs {
	return &Sysfs{freqPath: defaultFreqPath, tempPath: defaultTempPath}
}

func (s *Sysfs) Name() string { return "sysfs" }

func (s *Sysfs) FrequencyMHz() (float64, error) {
	khz, err := readScalar(s.freqPath)
	if err != nil {
		return 0, fmt.Errorf("read cpufreq: %w", err)
	}
	return khz / 1e3, nil
}

func (s *Sysfs) TemperatureC() (float64, error) {
	milli, err := readScalar(s.tempPath)
	if err != nil {
		return 0, fmt.Errorf("read thermal zone: %w", err)
	}
	return milli / 1e3, nil
}

func readScalar(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed value in %s: %w", path, err)
	}
	return v, nil
}

var _ ports.SensorProbe = (*Sysfs)(nil)
