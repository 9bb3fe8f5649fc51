package collecting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"InstanceMon/pkg/metrics"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GPUCollector reports per-device GPU utilization through NVML. The
// constructor returns nil when NVML or devices are unavailable so the
// collector silently drops out on non-GPU hosts.
type GPUCollector struct {
	initialized bool
	devices     []nvml.Device
}

func NewGPUCollector() *GPUCollector {
	g := &GPUCollector{}
	if err := g.init(); err != nil {
		log.Printf("WARNING: GPU collector disabled: %v", err)
		return nil
	}
	return g
}

func (g *GPUCollector) Name() string { return "GPU" }

func (g *GPUCollector) init() error {
	if ret := nvml.Init(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("failed to initialize NVML: %s", nvml.ErrorString(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if !errors.Is(ret, nvml.SUCCESS) || count == 0 {
		nvml.Shutdown()
		return fmt.Errorf("no NVIDIA devices found")
	}

	g.devices = make([]nvml.Device, count)
	for i := 0; i < count; i++ {
		g.devices[i], _ = nvml.DeviceGetHandleByIndex(i)
	}
	g.initialized = true
	return nil
}

func (g *GPUCollector) Close() error {
	if g.initialized {
		nvml.Shutdown()
		g.initialized = false
	}
	return nil
}

func (g *GPUCollector) Collect(ctx context.Context, b *metrics.Batch) error {
	for i, device := range g.devices {
		util, ret := device.GetUtilizationRates()
		if !errors.Is(ret, nvml.SUCCESS) {
			return fmt.Errorf("failed to read GPU %d utilization: %s", i, nvml.ErrorString(ret))
		}
		b.Add("GpuUtilization", metrics.UnitPercent, float64(util.Gpu),
			metrics.Dimension{Name: "GpuId", Value: strconv.Itoa(i)})
	}
	return nil
}
