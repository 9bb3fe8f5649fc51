package collecting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"InstanceMon/pkg/metrics"
	"InstanceMon/pkg/probing"
)

// CPUSample is a snapshot of the aggregate cumulative tick counters from
// the first line of /proc/stat.
type CPUSample struct {
	Total int64
	Busy  int64
}

// ParseCPUSample reads the aggregate "cpu" line. The first 8 tick fields
// (user nice system idle iowait irq softirq steal) make up the total;
// guest ticks are excluded. Idle is idle + iowait.
func ParseCPUSample(text string) (CPUSample, error) {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		if len(fields) < 9 {
			return CPUSample{}, fmt.Errorf("%w: cpu line has %d tick fields, need 8", ErrMissingField, len(fields)-1)
		}

		var ticks [8]int64
		for i := range ticks {
			v, err := probing.ParseInt64(fields[i+1])
			if err != nil {
				return CPUSample{}, fmt.Errorf("bad cpu line %q: %w", line, err)
			}
			ticks[i] = v
		}

		var total int64
		for _, t := range ticks {
			total += t
		}
		idle := ticks[3] + ticks[4]
		return CPUSample{Total: total, Busy: total - idle}, nil
	}
	return CPUSample{}, fmt.Errorf("%w: cpu line in stat", ErrMissingField)
}

// CPUUtilization derives the utilization percentage between two samples.
// A non-positive total delta yields exactly 0; a negative busy delta is
// clamped to 0.
func CPUUtilization(first, second CPUSample) float64 {
	dTotal := second.Total - first.Total
	if dTotal <= 0 {
		return 0.0
	}
	dBusy := second.Busy - first.Busy
	if dBusy < 0 {
		dBusy = 0
	}
	return 100 * float64(dBusy) / float64(dTotal)
}

// CPUCollector reports CPU utilization from two time-spaced snapshots of
// /proc/stat. Collect blocks for the sample interval and must not run
// concurrently with itself; the Manager sequences collectors serially.
type CPUCollector struct {
	interval time.Duration
	path     string
}

func NewCPUCollector(interval time.Duration) *CPUCollector {
	return &CPUCollector{interval: interval, path: procStat}
}

func (c *CPUCollector) Name() string { return "CPU" }
func (c *CPUCollector) Close() error { return nil }

func (c *CPUCollector) Collect(ctx context.Context, b *metrics.Batch) error {
	first, err := c.sample()
	if err != nil {
		return err
	}

	time.Sleep(c.interval)

	second, err := c.sample()
	if err != nil {
		return err
	}

	b.Add("CPUUtilization", metrics.UnitPercent, CPUUtilization(first, second))
	return nil
}

func (c *CPUCollector) sample() (CPUSample, error) {
	text, err := probing.File(c.path)
	if err != nil {
		return CPUSample{}, err
	}
	return ParseCPUSample(text)
}
