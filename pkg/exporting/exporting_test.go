package exporting

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"InstanceMon/pkg/metrics"

	"github.com/parquet-go/parquet-go"
)

func sampleBatch() *metrics.Batch {
	b := metrics.NewBatch(metrics.BatchOptions{InstanceID: "i-1"})
	b.Add("MemoryUtilization", metrics.UnitPercent, 50.0)
	b.Add("DiskSpaceUtilization", metrics.UnitPercent, 25.0,
		metrics.Dimension{Name: "Filesystem", Value: "/dev/sda1"},
		metrics.Dimension{Name: "MountPath", Value: "/"})
	return b
}

func TestBatchRecords(t *testing.T) {
	records := BatchRecords(sampleBatch(), "run-1")
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	r := records[1]
	if r["metric"] != "DiskSpaceUtilization" || r["unit"] != "Percent" || r["value"] != 25.0 {
		t.Errorf("unexpected record: %v", r)
	}
	if r["InstanceId"] != "i-1" || r["Filesystem"] != "/dev/sda1" || r["MountPath"] != "/" {
		t.Errorf("dimensions not flattened: %v", r)
	}
	if r["run_id"] != "run-1" || r["timestamp"] == "" {
		t.Errorf("missing run metadata: %v", r)
	}
}

func TestSaveRecordsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.jsonl")
	if err := SaveRecords(path, BatchRecords(sampleBatch(), "run-1")); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("line %d: %v", lines+1, err)
		}
		if r["metric"] == "" {
			t.Errorf("line %d: missing metric", lines+1)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

func TestSaveRecordsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := SaveRecords(path, BatchRecords(sampleBatch(), "run-1")); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	// Header covers the union of columns, including sparse dimensions.
	header := make(map[string]bool)
	for _, col := range rows[0] {
		header[col] = true
	}
	for _, col := range []string{"metric", "unit", "value", "InstanceId", "Filesystem", "MountPath"} {
		if !header[col] {
			t.Errorf("header missing column %q: %v", col, rows[0])
		}
	}
}

func TestSaveRecordsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.parquet")
	if err := SaveRecords(path, BatchRecords(sampleBatch(), "run-1")); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if pf.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", pf.NumRows())
	}
}

func TestWriterForUnsupported(t *testing.T) {
	if _, err := WriterFor("batch.xml"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
