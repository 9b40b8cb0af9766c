package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/surveyreport/pkg/table"
)

// SheetName is the worksheet records are appended to.
const SheetName = "Report"

// Workbook mirrors report records into an xlsx file, one block per record
// separated by a blank row.
type Workbook struct {
	mu   sync.Mutex
	path string
}

// NewWorkbook returns a Workbook for path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Path returns the workbook file path.
func (b *Workbook) Path() string { return b.path }

// Append writes records below whatever the sheet already holds.
func (b *Workbook) Append(records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}
	next := len(rows) + 1
	if len(rows) > 0 {
		next++
	}
	for _, r := range records {
		if r.Table == nil {
			return fmt.Errorf("workbook record %q: no table", r.Title)
		}
		next, err = writeBlock(f, next, r.Title, r.rounded())
		if err != nil {
			return fmt.Errorf("workbook record %q: %w", r.Title, err)
		}
		next++
	}
	if err := f.SaveAs(b.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Reset deletes the workbook if present.
func (b *Workbook) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reset workbook: %w", err)
	}
	return nil
}

func (b *Workbook) open() (*excelize.File, error) {
	if _, err := os.Stat(b.path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", SheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("name sheet: %w", err)
		}
		return f, nil
	}
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
		if _, err := f.NewSheet(SheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet: %w", err)
		}
	}
	return f, nil
}

// writeBlock writes title, header and body starting at row and returns
// the first row after the block.
func writeBlock(f *excelize.File, row int, title string, t *table.Table) (int, error) {
	put := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(SheetName, cell, &values)
	}

	if err := put([]interface{}{title}); err != nil {
		return row, err
	}
	header := []interface{}{t.Index()}
	for _, c := range t.Cols() {
		header = append(header, c)
	}
	if err := put(header); err != nil {
		return row, err
	}
	for i, label := range t.Rows() {
		line := []interface{}{label}
		for _, v := range t.Row(i) {
			line = append(line, v)
		}
		if err := put(line); err != nil {
			return row, err
		}
	}
	return row, nil
}
