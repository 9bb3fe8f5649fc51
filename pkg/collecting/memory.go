package collecting

import (
	"context"
	"errors"
	"fmt"

	"InstanceMon/pkg/metrics"
	"InstanceMon/pkg/probing"
)

// ErrMissingField reports a required key absent from a parsed source.
var ErrMissingField = errors.New("missing field")

// Meminfo maps /proc/meminfo field names to values in kibibytes.
type Meminfo map[string]int64

var requiredMeminfoFields = []string{
	"MemTotal", "MemFree", "Cached", "Buffers", "SwapTotal", "SwapFree",
}

// ParseMeminfo parses meminfo-format text: lines of "Key:   value kB".
// Lines whose value does not start with a digit run are skipped. All
// required fields must be present.
func ParseMeminfo(text string) (Meminfo, error) {
	kv := probing.KVLines(text, fieldSeparatorColon)
	info := make(Meminfo, len(kv))
	for k, v := range kv {
		if n, ok := probing.LeadingInt64(v); ok {
			info[k] = n
		}
	}
	for _, f := range requiredMeminfoFields {
		if _, ok := info[f]; !ok {
			return nil, fmt.Errorf("%w: %s in meminfo", ErrMissingField, f)
		}
	}
	return info, nil
}

// MemoryStats holds the derived memory and swap quantities in bytes.
type MemoryStats struct {
	TotalBytes     int64
	UsedBytes      int64
	AvailBytes     int64
	SwapTotalBytes int64
	SwapUsedBytes  int64
}

// Stats derives byte quantities from the kibibyte table. When
// countCacheBuffAsUsed is false, cached and buffered pages count toward
// available memory.
func (m Meminfo) Stats(countCacheBuffAsUsed bool) MemoryStats {
	total := m["MemTotal"] * bytesPerKibibyte
	avail := m["MemFree"] * bytesPerKibibyte
	if !countCacheBuffAsUsed {
		avail += (m["Cached"] + m["Buffers"]) * bytesPerKibibyte
	}

	swapTotal := m["SwapTotal"] * bytesPerKibibyte
	swapFree := m["SwapFree"] * bytesPerKibibyte

	return MemoryStats{
		TotalBytes:     total,
		UsedBytes:      total - avail,
		AvailBytes:     avail,
		SwapTotalBytes: swapTotal,
		SwapUsedBytes:  swapTotal - swapFree,
	}
}

// MemUtilization returns memory used as a percentage of total, 0 when the
// total is 0.
func (s MemoryStats) MemUtilization() float64 {
	if s.TotalBytes == 0 {
		return 0
	}
	return 100 * float64(s.UsedBytes) / float64(s.TotalBytes)
}

// SwapUtilization returns swap used as a percentage of total, 0 when the
// total is 0.
func (s MemoryStats) SwapUtilization() float64 {
	if s.SwapTotalBytes == 0 {
		return 0
	}
	return 100 * float64(s.SwapUsedBytes) / float64(s.SwapTotalBytes)
}

// MemoryOptions selects which memory and swap metrics to report.
type MemoryOptions struct {
	ReportUtil     bool
	ReportUsed     bool
	ReportAvail    bool
	ReportSwapUtil bool
	ReportSwapUsed bool

	CountCacheBuffAsUsed bool
	Unit                 metrics.Unit
}

// MemoryCollector reports memory and swap metrics from /proc/meminfo.
type MemoryCollector struct {
	opts MemoryOptions
	path string
}

func NewMemoryCollector(opts MemoryOptions) *MemoryCollector {
	return &MemoryCollector{opts: opts, path: procMeminfo}
}

func (c *MemoryCollector) Name() string { return "Memory" }
func (c *MemoryCollector) Close() error { return nil }

func (c *MemoryCollector) Collect(ctx context.Context, b *metrics.Batch) error {
	text, err := probing.File(c.path)
	if err != nil {
		return err
	}

	info, err := ParseMeminfo(text)
	if err != nil {
		return err
	}
	stats := info.Stats(c.opts.CountCacheBuffAsUsed)

	div, err := c.opts.Unit.Divisor()
	if err != nil {
		return err
	}

	if c.opts.ReportUtil {
		b.Add("MemoryUtilization", metrics.UnitPercent, stats.MemUtilization())
	}
	if c.opts.ReportUsed {
		b.Add("MemoryUsed", c.opts.Unit, float64(stats.UsedBytes)/div)
	}
	if c.opts.ReportAvail {
		b.Add("MemoryAvailable", c.opts.Unit, float64(stats.AvailBytes)/div)
	}
	if c.opts.ReportSwapUtil {
		b.Add("SwapUtilization", metrics.UnitPercent, stats.SwapUtilization())
	}
	if c.opts.ReportSwapUsed {
		b.Add("SwapUsed", c.opts.Unit, float64(stats.SwapUsedBytes)/div)
	}
	return nil
}
