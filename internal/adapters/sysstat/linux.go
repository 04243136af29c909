// Package sysstat reads the OS-level load and utilization figures on
// Linux: load averages from the sysinfo syscall and CPU utilization from
// two /proc/stat snapshots taken across a short window.
package sysstat

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/airmon1101/kiln/internal/ports"
)

const procStatPath = "/proc/stat"

// sysinfo reports load averages as fixed-point values shifted by 16 bits.
const loadScale = 1 << 16

type Linux struct {
	statPath string
}

func NewLinux() *Linux {
	return &Linux{statPath: procStatPath}
}

func (l *Linux) LoadAverage() (float64, float64, float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, 0, 0, fmt.Errorf("sysinfo: %w", err)
	}
	return float64(info.Loads[0]) / loadScale,
		float64(info.Loads[1]) / loadScale,
		float64(info.Loads[2]) / loadScale,
		nil
}

// UtilizationPercent samples the aggregate cpu counters twice, `window`
// apart, and returns the busy share of the elapsed ticks. It blocks the
// caller for roughly the window.
func (l *Linux) UtilizationPercent(window time.Duration) (float64, error) {
	before, err := l.readCPUTimes()
	if err != nil {
		return 0, err
	}
	time.Sleep(window)
	after, err := l.readCPUTimes()
	if err != nil {
		return 0, err
	}
	return utilizationBetween(before, after), nil
}

// cpuTimes holds the aggregate tick counters from the "cpu" line.
type cpuTimes struct {
	idle  uint64
	total uint64
}

func (l *Linux) readCPUTimes() (cpuTimes, error) {
	raw, err := os.ReadFile(l.statPath)
	if err != nil {
		return cpuTimes{}, fmt.Errorf("read %s: %w", l.statPath, err)
	}
	return parseCPULine(string(raw))
}

func parseCPULine(stat string) (cpuTimes, error) {
	for _, line := range strings.Split(stat, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}

		var t cpuTimes
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return cpuTimes{}, fmt.Errorf("malformed cpu counter %q: %w", f, err)
			}
			t.total += v
			// idle + iowait count as not-busy.
			if i == 3 || i == 4 {
				t.idle += v
			}
		}
		return t, nil
	}
	return cpuTimes{}, fmt.Errorf("no aggregate cpu line in stat output")
}

func utilizationBetween(before, after cpuTimes) float64 {
	if after.total <= before.total {
		return 0
	}
	totalDelta := float64(after.total - before.total)
	// The iowait counter can decrease between reads, so the idle sum can
	// go backwards; a negative delta counts as no idle time.
	idleDelta := float64(after.idle) - float64(before.idle)
	if idleDelta < 0 {
		idleDelta = 0
	}
	busy := 100 * (totalDelta - idleDelta) / totalDelta
	if busy < 0 {
		return 0
	}
	if busy > 100 {
		return 100
	}
	return busy
}

var _ ports.SystemStats = (*Linux)(nil)
