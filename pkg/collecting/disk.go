package collecting

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"InstanceMon/pkg/metrics"
	"InstanceMon/pkg/probing"
)

// ErrCommandFailed reports a failed or unparsable external command.
var ErrCommandFailed = errors.New("command failed")

// DiskUsage is one filesystem's usage as reported by df, in bytes.
type DiskUsage struct {
	Filesystem string
	MountPath  string
	TotalBytes int64
	UsedBytes  int64
	AvailBytes int64
}

// Utilization returns used space as a percentage of total, 0 when the
// total is 0.
func (d DiskUsage) Utilization() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return 100 * float64(d.UsedBytes) / float64(d.TotalBytes)
}

// ParseDF parses `df -klP` output: a header line followed by one row per
// filesystem with exactly 6 columns (filesystem, 1K-blocks, used,
// available, capacity, mount).
func ParseDF(out string) ([]DiskUsage, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: df produced no rows", ErrCommandFailed)
	}

	rows := make([]DiskUsage, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, fmt.Errorf("%w: unexpected df row %q", ErrCommandFailed, line)
		}

		total, err1 := probing.ParseInt64(fields[1])
		used, err2 := probing.ParseInt64(fields[2])
		avail, err3 := probing.ParseInt64(fields[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: unexpected df row %q", ErrCommandFailed, line)
		}

		rows = append(rows, DiskUsage{
			Filesystem: fields[0],
			MountPath:  fields[5],
			TotalBytes: total * dfBlockSize,
			UsedBytes:  used * dfBlockSize,
			AvailBytes: avail * dfBlockSize,
		})
	}
	return rows, nil
}

func runDF(ctx context.Context, paths []string) (string, error) {
	args := append([]string{"-k", "-l", "-P"}, paths...)
	out, err := exec.CommandContext(ctx, "df", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: df exited with %d: %s",
				ErrCommandFailed, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%w: df: %v", ErrCommandFailed, err)
	}
	return string(out), nil
}

// DiskOptions selects which disk space metrics to report and for which
// mount paths.
type DiskOptions struct {
	ReportUtil  bool
	ReportUsed  bool
	ReportAvail bool

	Paths []string
	Unit  metrics.Unit
}

// DiskCollector reports disk space metrics per requested mount path,
// tagging each datum with Filesystem and MountPath dimensions.
type DiskCollector struct {
	opts DiskOptions
	run  func(ctx context.Context, paths []string) (string, error)
}

func NewDiskCollector(opts DiskOptions) *DiskCollector {
	return &DiskCollector{opts: opts, run: runDF}
}

func (c *DiskCollector) Name() string { return "Disk" }
func (c *DiskCollector) Close() error { return nil }

func (c *DiskCollector) Collect(ctx context.Context, b *metrics.Batch) error {
	out, err := c.run(ctx, c.opts.Paths)
	if err != nil {
		return err
	}

	rows, err := ParseDF(out)
	if err != nil {
		return err
	}

	div, err := c.opts.Unit.Divisor()
	if err != nil {
		return err
	}

	for _, row := range rows {
		dims := []metrics.Dimension{
			{Name: "Filesystem", Value: row.Filesystem},
			{Name: "MountPath", Value: row.MountPath},
		}
		if c.opts.ReportUtil {
			b.Add("DiskSpaceUtilization", metrics.UnitPercent, row.Utilization(), dims...)
		}
		if c.opts.ReportUsed {
			b.Add("DiskSpaceUsed", c.opts.Unit, float64(row.UsedBytes)/div, dims...)
		}
		if c.opts.ReportAvail {
			b.Add("DiskSpaceAvailable", c.opts.Unit, float64(row.AvailBytes)/div, dims...)
		}
	}
	return nil
}
