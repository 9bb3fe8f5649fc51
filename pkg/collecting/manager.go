package collecting

import (
	"context"
	"fmt"
	"log"
	"time"

	"InstanceMon/pkg/metrics"
	"InstanceMon/pkg/utils"
)

// Manager sequences the collectors selected by the configuration. Sources
// are read strictly serially; the CPU collector blocks for its sample
// interval and relies on that.
type Manager struct {
	collectors []Collector
}

func NewManager(cfg *utils.Config) *Manager {
	m := &Manager{collectors: make([]Collector, 0, 4)}

	// Units were validated with the rest of the configuration.
	memUnit, _ := metrics.ParseSizeUnit(cfg.MemoryUnits)
	diskUnit, _ := metrics.ParseSizeUnit(cfg.DiskSpaceUnits)

	if cfg.ReportMem() {
		m.collectors = append(m.collectors, NewMemoryCollector(MemoryOptions{
			ReportUtil:           cfg.MemUtil,
			ReportUsed:           cfg.MemUsed,
			ReportAvail:          cfg.MemAvail,
			ReportSwapUtil:       cfg.SwapUtil,
			ReportSwapUsed:       cfg.SwapUsed,
			CountCacheBuffAsUsed: cfg.MemUsedInclCacheBuff,
			Unit:                 memUnit,
		}))
	}

	if cfg.ReportDisk() {
		m.collectors = append(m.collectors, NewDiskCollector(DiskOptions{
			ReportUtil:  cfg.DiskSpaceUtil,
			ReportUsed:  cfg.DiskSpaceUsed,
			ReportAvail: cfg.DiskSpaceAvail,
			Paths:       cfg.DiskPaths,
			Unit:        diskUnit,
		}))
	}

	if cfg.CPUUtil {
		interval := time.Duration(cfg.CPUSampleInterval * float64(time.Second))
		m.collectors = append(m.collectors, NewCPUCollector(interval))
	}

	if cfg.GPUUtil {
		if g := NewGPUCollector(); g != nil {
			m.collectors = append(m.collectors, g)
		}
	}

	log.Printf("Initialized %d collectors", len(m.collectors))
	return m
}

// Collect runs every collector in sequence, appending to the shared batch.
// The first failure aborts the invocation; no partial batch is submitted.
func (m *Manager) Collect(ctx context.Context, b *metrics.Batch) error {
	for _, c := range m.collectors {
		log.Printf("Collecting %s", c.Name())
		if err := c.Collect(ctx, b); err != nil {
			return fmt.Errorf("%s collector: %w", c.Name(), err)
		}
	}
	return nil
}

func (m *Manager) Close() {
	for _, c := range m.collectors {
		if err := c.Close(); err != nil {
			log.Printf("Error closing collector %s: %v", c.Name(), err)
		}
	}
}

func (m *Manager) CollectorNames() []string {
	names := make([]string, len(m.collectors))
	for i, c := range m.collectors {
		names[i] = c.Name()
	}
	return names
}
