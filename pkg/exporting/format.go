// Package exporting writes metric batches to local files, format chosen by
// file extension. Used by verify mode's --output.
package exporting

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Record is a generic map representing a single exported row.
type Record = map[string]interface{}

// Writer writes records to a file.
type Writer interface {
	Init(path string) error
	Write(record Record) error
	Flush() error
	Close() error
}

var writers = map[string]func() Writer{
	".jsonl":   func() Writer { return &JSONLWriter{} },
	".json":    func() Writer { return &JSONLWriter{} },
	".csv":     func() Writer { return &DelimitedWriter{delimiter: ','} },
	".tsv":     func() Writer { return &DelimitedWriter{delimiter: '\t'} },
	".parquet": func() Writer { return &ParquetWriter{} },
}

// WriterFor returns a writer based on the file's extension.
func WriterFor(path string) (Writer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mk, ok := writers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported output format for file: %s", path)
	}
	return mk(), nil
}

// SaveRecords writes all records to path in one shot.
func SaveRecords(path string, records []Record) error {
	w, err := WriterFor(path)
	if err != nil {
		return err
	}
	if err := w.Init(path); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
