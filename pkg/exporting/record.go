package exporting

import (
	"time"

	"InstanceMon/pkg/metrics"
)

// BatchRecords flattens a metric batch into exportable rows: fixed metric
// columns plus one column per dimension name.
func BatchRecords(b *metrics.Batch, runID string) []Record {
	data := b.Data()
	records := make([]Record, 0, len(data))
	for _, d := range data {
		r := Record{
			"run_id":    runID,
			"metric":    d.Name,
			"unit":      string(d.Unit),
			"value":     d.Value,
			"timestamp": d.Timestamp.Format(time.RFC3339Nano),
		}
		for _, dim := range d.Dimensions {
			r[dim.Name] = dim.Value
		}
		records = append(records, r)
	}
	return records
}
