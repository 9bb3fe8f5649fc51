package exporting

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// ParquetWriter writes records to a Snappy-compressed parquet file.
// Records are buffered until Flush so the schema can cover the union of
// all columns.
type ParquetWriter struct {
	path    string
	records []Record
	flushed bool
}

func (w *ParquetWriter) Init(path string) error {
	w.path = path
	w.records = w.records[:0]
	return nil
}

func (w *ParquetWriter) Write(record Record) error {
	w.records = append(w.records, record)
	return nil
}

func (w *ParquetWriter) Flush() error {
	if w.flushed {
		return nil
	}

	columns := unionColumns(w.records)
	schema := w.buildSchema(columns)

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	pw := parquet.NewWriter(file, schema, parquet.Compression(&parquet.Snappy))
	for _, record := range w.records {
		if _, err := pw.WriteRows([]parquet.Row{w.recordToRow(columns, record)}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	w.flushed = true
	return nil
}

func (w *ParquetWriter) Close() error {
	return w.Flush()
}

func (w *ParquetWriter) buildSchema(columns []string) *parquet.Schema {
	group := make(parquet.Group, len(columns))
	for _, name := range columns {
		group[name] = valueNode(firstValue(w.records, name))
	}
	return parquet.NewSchema("datum", group)
}

func firstValue(records []Record, column string) interface{} {
	for _, r := range records {
		if v, ok := r[column]; ok && v != nil {
			return v
		}
	}
	return nil
}

func valueNode(val interface{}) parquet.Node {
	switch val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return parquet.Optional(parquet.Int(64))
	case float32, float64:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case bool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

func (w *ParquetWriter) recordToRow(columns []string, record Record) parquet.Row {
	row := make(parquet.Row, len(columns))
	for i, name := range columns {
		val, ok := record[name]
		if !ok || val == nil {
			row[i] = parquet.NullValue().Level(0, 0, i)
			continue
		}
		row[i] = goValue(val, i)
	}
	return row
}

func goValue(val interface{}, columnIndex int) parquet.Value {
	switch v := val.(type) {
	case bool:
		return parquet.BooleanValue(v).Level(0, 1, columnIndex)
	case int:
		return parquet.Int64Value(int64(v)).Level(0, 1, columnIndex)
	case int32:
		return parquet.Int64Value(int64(v)).Level(0, 1, columnIndex)
	case int64:
		return parquet.Int64Value(v).Level(0, 1, columnIndex)
	case uint64:
		return parquet.Int64Value(int64(v)).Level(0, 1, columnIndex)
	case float32:
		return parquet.DoubleValue(float64(v)).Level(0, 1, columnIndex)
	case float64:
		return parquet.DoubleValue(v).Level(0, 1, columnIndex)
	case string:
		return parquet.ByteArrayValue([]byte(v)).Level(0, 1, columnIndex)
	default:
		return parquet.ByteArrayValue([]byte(fmt.Sprintf("%v", v))).Level(0, 1, columnIndex)
	}
}
