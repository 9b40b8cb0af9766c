package codebook

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Format describes the layout of a variable table.
type Format struct {
	Delimiter         string `yaml:"delimiter"`
	Encoding          string `yaml:"encoding"`
	Sheet             string `yaml:"sheet"`
	VariableColumn    string `yaml:"variable_column"`
	ItemsColumn       string `yaml:"items_column"`
	DescriptionColumn string `yaml:"description_column"`
}

// DefaultFormat returns the column names used when a job does not set them.
func DefaultFormat() Format {
	return Format{
		Delimiter:         ",",
		VariableColumn:    "variable",
		ItemsColumn:       "items",
		DescriptionColumn: "description",
	}
}

// LoadFormat reads a YAML format description, starting from DefaultFormat.
func LoadFormat(path string) (Format, error) {
	f := DefaultFormat()
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read format %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse format %s: %w", path, err)
	}
	return f, nil
}

// LoadVariableTable reads a variable table from a CSV or xlsx file.
func LoadVariableTable(path string, f Format) ([]VariableRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readSheet(path, f.Sheet)
	default:
		records, err = readDelimited(path, f)
	}
	if err != nil {
		return nil, fmt.Errorf("variable table %s: %w", path, err)
	}
	rows, err := variableRows(records, f)
	if err != nil {
		return nil, fmt.Errorf("variable table %s: %w", path, err)
	}
	return rows, nil
}

func readDelimited(path string, f Format) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer fh.Close()

	// Transcode legacy encodings (Shift_JIS exports are common).
	var reader io.Reader = fh
	if enc := f.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(fh, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if f.Delimiter != "" {
		r.Comma = []rune(f.Delimiter)[0]
	}
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func readSheet(path, sheet string) ([][]string, error) {
	xf, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer xf.Close()

	if sheet == "" {
		sheet = xf.GetSheetName(0)
	}
	rows, err := xf.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func variableRows(records [][]string, f Format) ([]VariableRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	header := records[0]
	idx := func(name string) (int, error) {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				return i, nil
			}
		}
		return -1, fmt.Errorf("column %q not found in header %v", name, header)
	}
	vi, err := idx(f.VariableColumn)
	if err != nil {
		return nil, err
	}
	ii, err := idx(f.ItemsColumn)
	if err != nil {
		return nil, err
	}
	di, err := idx(f.DescriptionColumn)
	if err != nil {
		return nil, err
	}

	cell := func(rec []string, i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	rows := make([]VariableRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		name := strings.TrimSpace(cell(rec, vi))
		if name == "" {
			continue
		}
		rows = append(rows, VariableRow{
			Variable:    name,
			Items:       strings.TrimSpace(cell(rec, ii)),
			Description: strings.TrimSpace(cell(rec, di)),
		})
	}
	return rows, nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
