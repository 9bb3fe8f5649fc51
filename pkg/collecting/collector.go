package collecting

import (
	"context"

	"InstanceMon/pkg/metrics"
)

// Collector reads one metric source and appends the requested datums to
// the invocation batch.
type Collector interface {
	Name() string
	Collect(ctx context.Context, b *metrics.Batch) error
	Close() error
}
