package utils

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"InstanceMon/pkg/metrics"

	"github.com/google/uuid"
)

const (
	Version = "1.0.0"

	// Namespace is the CloudWatch namespace all metrics are reported under.
	Namespace = "System/Linux"

	// DefaultInstanceIDFile is consulted for instance identity outside EC2.
	DefaultInstanceIDFile = "/var/lib/cloud/data/instance-id"
)

// ErrInvalidConfig reports an invalid flag combination, detected before
// any I/O.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds one invocation's metric selection and reporting options.
type Config struct {
	MemUtil  bool
	MemUsed  bool
	MemAvail bool
	SwapUtil bool
	SwapUsed bool

	DiskSpaceUtil  bool
	DiskSpaceUsed  bool
	DiskSpaceAvail bool
	DiskPaths      []string

	CPUUtil           bool
	CPUSampleInterval float64

	GPUUtil bool

	MemoryUnits          string
	DiskSpaceUnits       string
	MemUsedInclCacheBuff bool

	Aggregated      bool
	AggregatedOnly  bool
	AutoScaling     bool
	AutoScalingOnly bool

	Verify      bool
	FromCron    bool
	Verbose     bool
	ShowVersion bool
	OutputFile  string

	RunID    string
	Hostname string
}

func NewConfig() *Config {
	return &Config{
		MemoryUnits:       string(metrics.UnitMegabytes),
		DiskSpaceUnits:    string(metrics.UnitGigabytes),
		CPUSampleInterval: 1.0,
		RunID:             uuid.NewString(),
		Hostname:          GetHostname(),
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// GetFlags registers all flags on fs and returns a closure to apply
// derived settings after parsing.
func GetFlags(fs *flag.FlagSet, cfg *Config) func() {
	fs.BoolVar(&cfg.MemUtil, "mem-util", false, "Report memory utilization in percentages")
	fs.BoolVar(&cfg.MemUsed, "mem-used", false, "Report memory used")
	fs.BoolVar(&cfg.MemAvail, "mem-avail", false, "Report available memory")
	fs.BoolVar(&cfg.SwapUtil, "swap-util", false, "Report swap utilization in percentages")
	fs.BoolVar(&cfg.SwapUsed, "swap-used", false, "Report allocated swap space")

	fs.BoolVar(&cfg.DiskSpaceUtil, "disk-space-util", false, "Report disk space utilization in percentages")
	fs.BoolVar(&cfg.DiskSpaceUsed, "disk-space-used", false, "Report allocated disk space")
	fs.BoolVar(&cfg.DiskSpaceAvail, "disk-space-avail", false, "Report available disk space")
	fs.Var((*stringList)(&cfg.DiskPaths), "disk-path", "Mount path of a disk to report on (repeatable)")

	fs.BoolVar(&cfg.CPUUtil, "cpu-util", false, "Report CPU utilization in percentages")
	fs.Float64Var(&cfg.CPUSampleInterval, "cpu-sample-interval", cfg.CPUSampleInterval, "CPU sampling interval in seconds")
	fs.BoolVar(&cfg.GPUUtil, "gpu-util", false, "Report NVIDIA GPU utilization in percentages")

	fs.StringVar(&cfg.MemoryUnits, "memory-units", cfg.MemoryUnits, "Units for memory metrics")
	fs.StringVar(&cfg.DiskSpaceUnits, "disk-space-units", cfg.DiskSpaceUnits, "Units for disk space metrics")
	fs.BoolVar(&cfg.MemUsedInclCacheBuff, "mem-used-incl-cache-buff", false, "Count cached and buffered memory as used")

	fs.BoolVar(&cfg.Aggregated, "aggregated", false, "Add aggregated metrics for instance type, AMI id, and fleet")
	fs.BoolVar(&cfg.AggregatedOnly, "aggregated-only", false, "Report only aggregated metrics")
	fs.BoolVar(&cfg.AutoScaling, "auto-scaling", false, "Add Auto Scaling group metrics")
	fs.BoolVar(&cfg.AutoScalingOnly, "auto-scaling-only", false, "Report only Auto Scaling group metrics")

	fs.BoolVar(&cfg.Verify, "verify", false, "Check configuration and prepare the remote call without submitting")
	fs.BoolVar(&cfg.FromCron, "from-cron", false, "Run quietly with a randomized submission delay")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Display details of what the tool is doing")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Display the version number")
	fs.StringVar(&cfg.OutputFile, "output", "", "In verify mode, export the batch to this file (jsonl/csv/tsv/parquet)")

	return func() {
		if cfg.AggregatedOnly {
			cfg.Aggregated = true
		}
		if cfg.AutoScalingOnly {
			cfg.AutoScaling = true
		}
		if cfg.FromCron {
			cfg.Verbose = false
		}
	}
}

// ReportMem reports whether any genuine memory or swap metric is selected.
func (c *Config) ReportMem() bool {
	return c.MemUtil || c.MemUsed || c.MemAvail || c.SwapUtil || c.SwapUsed
}

// ReportDisk reports whether any disk space metric is selected.
func (c *Config) ReportDisk() bool {
	return c.DiskSpaceUtil || c.DiskSpaceUsed || c.DiskSpaceAvail
}

// Validate rejects invalid flag combinations before any I/O happens.
func (c *Config) Validate() error {
	if !c.ReportMem() && !c.ReportDisk() && !c.CPUUtil && !c.GPUUtil {
		return fmt.Errorf("%w: no metrics specified", ErrInvalidConfig)
	}
	if c.ReportDisk() && len(c.DiskPaths) == 0 {
		return fmt.Errorf("%w: disk space metrics requested without --disk-path", ErrInvalidConfig)
	}
	if !c.ReportDisk() && len(c.DiskPaths) > 0 {
		return fmt.Errorf("%w: --disk-path provided without any disk space metric", ErrInvalidConfig)
	}
	if _, err := metrics.ParseSizeUnit(c.MemoryUnits); err != nil {
		return fmt.Errorf("%w: --memory-units: %v", ErrInvalidConfig, err)
	}
	if _, err := metrics.ParseSizeUnit(c.DiskSpaceUnits); err != nil {
		return fmt.Errorf("%w: --disk-space-units: %v", ErrInvalidConfig, err)
	}
	if c.CPUUtil && c.CPUSampleInterval <= 0 {
		return fmt.Errorf("%w: --cpu-sample-interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func GetHostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
