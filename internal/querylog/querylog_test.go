package querylog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ragbot/internal/domain"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestRecordWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "responses.csv")
	l := New(path)
	ts := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	if err := l.Record(domain.QueryLogEntry{Timestamp: ts, Query: "What is new in IOLs?", ResponseTime: 1234 * time.Millisecond, FirstTurn: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Record(domain.QueryLogEntry{Timestamp: ts, Query: "and, competitors?", ResponseTime: 500 * time.Millisecond}); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d: %v", len(rows), rows)
	}
	if rows[0][2] != "Response Time (seconds)" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "2026-10-18 09:30:00.000000" || rows[1][2] != "1.23" || rows[1][3] != "Yes" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][1] != "and, competitors?" || rows[2][2] != "0.50" || rows[2][3] != "No" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestRecordAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")
	for i := 0; i < 2; i++ {
		if err := New(path).Record(domain.QueryLogEntry{Timestamp: time.Now(), Query: "q"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if rows := readRows(t, path); len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestRecordWritesHeaderIntoEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(path).Record(domain.QueryLogEntry{Query: "q"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	rows := readRows(t, path)
	if len(rows) != 2 || rows[0][0] != "Timestamp" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestDiscard(t *testing.T) {
	if err := Discard.Record(domain.QueryLogEntry{}); err != nil {
		t.Fatalf("discard: %v", err)
	}
}
