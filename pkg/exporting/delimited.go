package exporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"InstanceMon/pkg/utils"
)

// DelimitedWriter writes CSV or TSV. Records are buffered until Flush so
// the header can cover the union of all columns.
type DelimitedWriter struct {
	path      string
	delimiter rune
	records   []Record
	flushed   bool
}

func (w *DelimitedWriter) Init(path string) error {
	w.path = path
	w.records = w.records[:0]
	return nil
}

func (w *DelimitedWriter) Write(record Record) error {
	w.records = append(w.records, record)
	return nil
}

func (w *DelimitedWriter) Flush() error {
	if w.flushed {
		return nil
	}

	columns := unionColumns(w.records)

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	cw.Comma = w.delimiter

	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, record := range w.records {
		for i, col := range columns {
			row[i] = utils.FormatValue(record[col])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	w.flushed = true
	return cw.Error()
}

func (w *DelimitedWriter) Close() error {
	return w.Flush()
}

// unionColumns returns the sorted union of keys across all records.
func unionColumns(records []Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r {
			seen[k] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}
