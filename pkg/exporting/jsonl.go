package exporting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

const defaultBufferSize = 64 * 1024

// JSONLWriter writes one JSON object per line.
type JSONLWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func (w *JSONLWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w.file = file
	w.writer = bufio.NewWriterSize(file, defaultBufferSize)
	return nil
}

func (w *JSONLWriter) Write(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	return w.writer.WriteByte('\n')
}

func (w *JSONLWriter) Flush() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Flush()
}

func (w *JSONLWriter) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
