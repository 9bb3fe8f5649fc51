package metrics

import (
	"testing"
	"time"
)

func dimMap(d Datum) map[string]string {
	m := make(map[string]string, len(d.Dimensions))
	for _, dim := range d.Dimensions {
		m[dim.Name] = dim.Value
	}
	return m
}

func TestBatchAddPerInstance(t *testing.T) {
	b := NewBatch(BatchOptions{InstanceID: "i-1234567890abcdef0"})
	b.Add("MemoryUtilization", UnitPercent, 50.0)

	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}

	d := b.Data()[0]
	if d.Name != "MemoryUtilization" || d.Unit != UnitPercent || d.Value != 50.0 {
		t.Errorf("unexpected datum: %+v", d)
	}
	if d.Timestamp.IsZero() || d.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp not UTC-stamped: %v", d.Timestamp)
	}
	if len(d.Dimensions) != 1 || d.Dimensions[0].Name != "InstanceId" {
		t.Fatalf("InstanceId must be the leading dimension, got %+v", d.Dimensions)
	}
	if d.Dimensions[0].Value != "i-1234567890abcdef0" {
		t.Errorf("InstanceId = %q", d.Dimensions[0].Value)
	}
}

func TestBatchAddExtraDimensions(t *testing.T) {
	b := NewBatch(BatchOptions{InstanceID: "i-1"})
	b.Add("DiskSpaceUtilization", UnitPercent, 25.0,
		Dimension{Name: "Filesystem", Value: "/dev/sda1"},
		Dimension{Name: "MountPath", Value: "/"})

	dims := dimMap(b.Data()[0])
	if dims["Filesystem"] != "/dev/sda1" || dims["MountPath"] != "/" || dims["InstanceId"] != "i-1" {
		t.Errorf("unexpected dimensions: %v", dims)
	}
}

func TestBatchAggregated(t *testing.T) {
	b := NewBatch(BatchOptions{
		InstanceID:   "i-1",
		InstanceType: "m5.large",
		ImageID:      "ami-42",
		Aggregated:   true,
	})
	b.Add("MemoryUtilization", UnitPercent, 50.0)

	// Per-instance copy plus instance-type, image and fleet-wide copies.
	if b.Len() != 4 {
		t.Fatalf("Len = %d, want 4", b.Len())
	}

	var haveInstance, haveType, haveImage, haveFleet bool
	for _, d := range b.Data() {
		dims := dimMap(d)
		switch {
		case dims["InstanceId"] == "i-1":
			haveInstance = true
		case dims["InstanceType"] == "m5.large":
			haveType = true
		case dims["ImageId"] == "ami-42":
			haveImage = true
		case len(d.Dimensions) == 0:
			haveFleet = true
		}
	}
	if !haveInstance || !haveType || !haveImage || !haveFleet {
		t.Errorf("missing aggregated variants: instance=%v type=%v image=%v fleet=%v",
			haveInstance, haveType, haveImage, haveFleet)
	}
}

func TestBatchAggregatedOnly(t *testing.T) {
	b := NewBatch(BatchOptions{
		InstanceID:     "i-1",
		InstanceType:   "m5.large",
		ImageID:        "ami-42",
		Aggregated:     true,
		AggregatedOnly: true,
	})
	b.Add("MemoryUtilization", UnitPercent, 50.0)

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	for _, d := range b.Data() {
		if _, ok := dimMap(d)["InstanceId"]; ok {
			t.Errorf("aggregated-only batch must not carry InstanceId: %+v", d)
		}
	}
}

func TestBatchAutoScaling(t *testing.T) {
	b := NewBatch(BatchOptions{
		InstanceID:       "i-1",
		AutoScalingGroup: "web-asg",
		AutoScaling:      true,
	})
	b.Add("CPUUtilization", UnitPercent, 12.5)

	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	dims := dimMap(b.Data()[1])
	if dims["AutoScalingGroupName"] != "web-asg" {
		t.Errorf("missing AutoScalingGroupName dimension: %v", dims)
	}
}

func TestBatchEmpty(t *testing.T) {
	b := NewBatch(BatchOptions{InstanceID: "i-1"})
	if !b.Empty() || b.Len() != 0 {
		t.Errorf("new batch must be empty")
	}
}
