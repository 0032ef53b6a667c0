// Package querylog appends one CSV row per answered query.
package querylog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ragbot/internal/domain"
)

// TimestampLayout is the layout of the Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05.000000"

var header = []string{"Timestamp", "Query", "Response Time (seconds)", "Is First Prompt"}

// Recorder persists query log entries.
type Recorder interface {
	Record(entry domain.QueryLogEntry) error
}

// Logger appends entries to a CSV file, writing the header first when the file
// is missing or empty.
type Logger struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Path() string { return l.path }

// Record appends entry as one row. The file is opened and closed per call.
func (l *Logger) Record(entry domain.QueryLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening query log: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(row(entry)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing query log: %w", err)
	}
	return nil
}

func row(e domain.QueryLogEntry) []string {
	first := "No"
	if e.FirstTurn {
		first = "Yes"
	}
	return []string{
		e.Timestamp.Format(TimestampLayout),
		e.Query,
		fmt.Sprintf("%.2f", e.ResponseTime.Seconds()),
		first,
	}
}

type discard struct{}

func (discard) Record(domain.QueryLogEntry) error { return nil }

// Discard drops every entry.
var Discard Recorder = discard{}
