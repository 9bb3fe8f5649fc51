package metrics

import "time"

// BatchOptions configures how each observation is expanded into datums.
// Aggregated copies drop the InstanceId dimension in favor of instance
// type, image id and a fleet-wide (dimensionless) variant; AutoScaling
// adds a copy keyed by the Auto Scaling group name.
type BatchOptions struct {
	InstanceID       string
	InstanceType     string
	ImageID          string
	AutoScalingGroup string

	Aggregated      bool
	AggregatedOnly  bool
	AutoScaling     bool
	AutoScalingOnly bool
}

// Batch accumulates the metric data for one invocation. It is created by
// the orchestrator and passed through the pipeline; collectors append to it
// and the submission client consumes it. No global state.
type Batch struct {
	opts BatchOptions
	data []Datum
}

func NewBatch(opts BatchOptions) *Batch {
	return &Batch{opts: opts}
}

// Add records one observation, expanding it into one datum per configured
// reporting mode. The per-instance datum carries the mandatory InstanceId
// dimension followed by any extra dimensions.
func (b *Batch) Add(name string, unit Unit, value float64, extra ...Dimension) {
	now := time.Now().UTC()

	perInstance := !b.opts.AggregatedOnly && !b.opts.AutoScalingOnly
	if perInstance {
		b.append(name, unit, value, now, Dimension{Name: "InstanceId", Value: b.opts.InstanceID}, extra)
	}

	if b.opts.AutoScaling || b.opts.AutoScalingOnly {
		b.append(name, unit, value, now, Dimension{Name: "AutoScalingGroupName", Value: b.opts.AutoScalingGroup}, extra)
	}

	if b.opts.Aggregated || b.opts.AggregatedOnly {
		b.append(name, unit, value, now, Dimension{Name: "InstanceType", Value: b.opts.InstanceType}, extra)
		b.append(name, unit, value, now, Dimension{Name: "ImageId", Value: b.opts.ImageID}, extra)
		b.append(name, unit, value, now, Dimension{}, extra)
	}
}

func (b *Batch) append(name string, unit Unit, value float64, ts time.Time, lead Dimension, extra []Dimension) {
	dims := make([]Dimension, 0, len(extra)+1)
	if lead.Name != "" {
		dims = append(dims, lead)
	}
	dims = append(dims, extra...)
	b.data = append(b.data, Datum{
		Name:       name,
		Unit:       unit,
		Value:      value,
		Timestamp:  ts,
		Dimensions: dims,
	})
}

// Data returns the accumulated datums in insertion order.
func (b *Batch) Data() []Datum { return b.data }

func (b *Batch) Len() int    { return len(b.data) }
func (b *Batch) Empty() bool { return len(b.data) == 0 }
