// Package table provides the labelled two-dimensional tables produced by
// tabulation, and the reshaping that pins them to a canonical category
// universe.
package table

import (
	"fmt"
	"math"
)

// All is the label of margin rows and columns.
const All = "All"

// Axis selects rows or columns.
type Axis uint8

const (
	Rows Axis = iota
	Cols
)

func (a Axis) String() string {
	if a == Rows {
		return "rows"
	}
	return "columns"
}

// Table is a grid of values indexed by row and column labels. Labels are
// unique per axis.
type Table struct {
	// Counts marks a table of raw counts. WriteCSV prints its values as
	// integers and Round leaves it untouched.
	Counts bool

	index  string
	rows   []string
	cols   []string
	values [][]float64
	rowPos map[string]int
	colPos map[string]int
}

// New returns a zero-filled table. index names the row axis and is written
// in the header corner cell.
func New(index string, rows, cols []string) (*Table, error) {
	rowPos, err := positions(Rows, rows)
	if err != nil {
		return nil, err
	}
	colPos, err := positions(Cols, cols)
	if err != nil {
		return nil, err
	}
	t := &Table{
		index:  index,
		rows:   append([]string(nil), rows...),
		cols:   append([]string(nil), cols...),
		values: make([][]float64, len(rows)),
		rowPos: rowPos,
		colPos: colPos,
	}
	for i := range t.values {
		t.values[i] = make([]float64, len(cols))
	}
	return t, nil
}

func positions(axis Axis, labels []string) (map[string]int, error) {
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := pos[l]; dup {
			return nil, fmt.Errorf("%w on %s: %q", ErrDuplicateLabel, axis, l)
		}
		pos[l] = i
	}
	return pos, nil
}

// Index returns the name of the row axis.
func (t *Table) Index() string { return t.index }

// Rows returns the row labels in order.
func (t *Table) Rows() []string { return append([]string(nil), t.rows...) }

// Cols returns the column labels in order.
func (t *Table) Cols() []string { return append([]string(nil), t.cols...) }

// Labels returns the labels of axis.
func (t *Table) Labels(axis Axis) []string {
	if axis == Rows {
		return t.Rows()
	}
	return t.Cols()
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (int, int) { return len(t.rows), len(t.cols) }

// Has reports whether label exists on axis.
func (t *Table) Has(axis Axis, label string) bool {
	if axis == Rows {
		_, ok := t.rowPos[label]
		return ok
	}
	_, ok := t.colPos[label]
	return ok
}

// At returns the value at row i, column j.
func (t *Table) At(i, j int) float64 { return t.values[i][j] }

// SetAt stores v at row i, column j.
func (t *Table) SetAt(i, j int, v float64) { t.values[i][j] = v }

// Get returns the value at (row, col).
func (t *Table) Get(row, col string) (float64, bool) {
	i, ok := t.rowPos[row]
	if !ok {
		return 0, false
	}
	j, ok := t.colPos[col]
	if !ok {
		return 0, false
	}
	return t.values[i][j], true
}

// Set stores v at (row, col).
func (t *Table) Set(row, col string, v float64) error {
	i, ok := t.rowPos[row]
	if !ok {
		return fmt.Errorf("%w: row %q", ErrUnknownLabel, row)
	}
	j, ok := t.colPos[col]
	if !ok {
		return fmt.Errorf("%w: column %q", ErrUnknownLabel, col)
	}
	t.values[i][j] = v
	return nil
}

// Add increments the value at (row, col).
func (t *Table) Add(row, col string, v float64) error {
	cur, ok := t.Get(row, col)
	if !ok {
		return t.Set(row, col, v)
	}
	return t.Set(row, col, cur+v)
}

// Row returns a copy of the values of row i.
func (t *Table) Row(i int) []float64 {
	return append([]float64(nil), t.values[i]...)
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(label string) ([]float64, bool) {
	j, ok := t.colPos[label]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.rows))
	for i := range t.rows {
		out[i] = t.values[i][j]
	}
	return out, true
}

// RowSum returns the sum of row i, skipping the All column.
func (t *Table) RowSum(i int) float64 {
	var s float64
	for j, c := range t.cols {
		if c == All {
			continue
		}
		s += t.values[i][j]
	}
	return s
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Counts: t.Counts,
		index:  t.index,
		rows:   t.Rows(),
		cols:   t.Cols(),
		values: make([][]float64, len(t.values)),
		rowPos: make(map[string]int, len(t.rowPos)),
		colPos: make(map[string]int, len(t.colPos)),
	}
	for i, r := range t.values {
		out.values[i] = append([]float64(nil), r...)
	}
	for k, v := range t.rowPos {
		out.rowPos[k] = v
	}
	for k, v := range t.colPos {
		out.colPos[k] = v
	}
	return out
}

// Transpose swaps rows and columns. The row axis of the result is unnamed.
func (t *Table) Transpose() *Table {
	out, _ := New("", t.cols, t.rows)
	out.Counts = t.Counts
	for i := range t.rows {
		for j := range t.cols {
			out.values[j][i] = t.values[i][j]
		}
	}
	return out
}

// Round returns a copy with every value rounded half-to-even to decimals
// places. Count tables are returned unchanged.
func (t *Table) Round(decimals int) *Table {
	out := t.Clone()
	if t.Counts {
		return out
	}
	p := math.Pow(10, float64(decimals))
	for _, r := range out.values {
		for j, v := range r {
			r[j] = math.RoundToEven(v*p) / p
		}
	}
	return out
}

// Without returns a copy with label removed from axis. A missing label
// leaves the copy unchanged.
func (t *Table) Without(axis Axis, label string) *Table {
	if !t.Has(axis, label) {
		return t.Clone()
	}
	keep := func(labels []string) []string {
		out := make([]string, 0, len(labels))
		for _, l := range labels {
			if l != label {
				out = append(out, l)
			}
		}
		return out
	}
	rows, cols := t.rows, t.cols
	if axis == Rows {
		rows = keep(rows)
	} else {
		cols = keep(cols)
	}
	out, _ := t.pick(rows, cols)
	return out
}

// ReverseRows returns a copy with the row order reversed.
func (t *Table) ReverseRows() *Table {
	rows := make([]string, len(t.rows))
	for i, r := range t.rows {
		rows[len(rows)-1-i] = r
	}
	out, _ := t.pick(rows, t.cols)
	return out
}

// pick builds a table from existing labels in the given order.
func (t *Table) pick(rows, cols []string) (*Table, error) {
	out, err := New(t.index, rows, cols)
	if err != nil {
		return nil, err
	}
	out.Counts = t.Counts
	for i, r := range rows {
		for j, c := range cols {
			v, ok := t.Get(r, c)
			if !ok {
				return nil, fmt.Errorf("%w: (%q, %q)", ErrUnknownLabel, r, c)
			}
			out.values[i][j] = v
		}
	}
	return out, nil
}

// Equal reports whether both tables have the same labels, order and values.
func (t *Table) Equal(o *Table) bool {
	return t.ApproxEqual(o, 0)
}

// ApproxEqual is Equal with an absolute tolerance on values.
func (t *Table) ApproxEqual(o *Table, tol float64) bool {
	if t.index != o.index || !sameLabels(t.rows, o.rows) || !sameLabels(t.cols, o.cols) {
		return false
	}
	for i := range t.values {
		for j := range t.values[i] {
			if math.Abs(t.values[i][j]-o.values[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
