// Package report appends titled tables to a UTF-8 text report and,
// optionally, mirrors them into an xlsx workbook.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hazyhaar/surveyreport/pkg/table"
)

// BOM prefixes every report file so spreadsheet tools detect UTF-8.
const BOM = "\ufeff"

// Record is one titled table. Percentage tables are rounded to Decimals
// before writing; count tables are written as they are.
type Record struct {
	Title    string
	Table    *table.Table
	Decimals int
}

func (r Record) rounded() *table.Table {
	if r.Table.Counts {
		return r.Table
	}
	return r.Table.Round(r.Decimals)
}

// Writer appends records to a text report. It is safe for concurrent use
// within one process.
type Writer struct {
	mu   sync.Mutex
	path string
}

// New returns a Writer for path. The file is created on first append.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the report file path.
func (w *Writer) Path() string { return w.path }

// Append writes records in one replace-by-rename, so a failure leaves the
// previous content untouched.
func (w *Writer) Append(records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, r := range records {
		if r.Table == nil {
			return fmt.Errorf("report record %q: no table", r.Title)
		}
		buf.WriteString("\n\n")
		buf.WriteString(r.Title)
		buf.WriteString("\n")
		if err := r.rounded().WriteCSV(&buf); err != nil {
			return fmt.Errorf("report record %q: %w", r.Title, err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	existing, err := os.ReadFile(w.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read report: %w", err)
	}
	if len(existing) == 0 {
		existing = []byte(BOM)
	}
	return replace(w.path, append(existing, buf.Bytes()...))
}

// Reset deletes the report if present and recreates it empty.
func (w *Writer) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := os.Remove(w.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reset report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("reset report: %w", err)
	}
	if err := os.WriteFile(w.path, nil, 0o644); err != nil {
		return fmt.Errorf("reset report: %w", err)
	}
	return nil
}

// replace writes data to a temporary file beside path and renames it over
// path.
func replace(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
