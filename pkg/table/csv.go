package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteCSV writes t as CSV: a header of the index name and column labels,
// then one line per row led by its label.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{t.index}, t.cols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.cols)+1)
	for i, r := range t.rows {
		rec[0] = r
		for j, v := range t.values[i] {
			rec[j+1] = FormatValue(v, t.Counts)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %q: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// String renders t as CSV.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.WriteCSV(&sb)
	return sb.String()
}

// FormatValue renders a cell. Counts print as integers; other values use
// the shortest representation and keep a ".0" on integral values.
func FormatValue(v float64, counts bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if counts {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
