package dataset

import (
	"fmt"
)

// Frame is a rectangular table of respondent rows with named columns in
// file order. A loaded frame is treated as read-only: Column hands out
// the backing slice and FillMissing returns a new frame.
type Frame struct {
	names   []string
	columns map[string][]Value
	rows    int
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{columns: make(map[string][]Value)}
}

// AddColumn appends a column. Every column must have the same length.
func (f *Frame) AddColumn(name string, values []Value) error {
	if _, ok := f.columns[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(f.names) > 0 && len(values) != f.rows {
		return fmt.Errorf("%w: %q has %d rows, frame has %d", ErrLengthMismatch, name, len(values), f.rows)
	}
	f.names = append(f.names, name)
	f.columns[name] = values
	f.rows = len(values)
	return nil
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]Value, error) {
	v, ok := f.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return v, nil
}

// Has reports whether the frame has a column called name.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.rows }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.names) }

// FillMissing returns a frame where missing cells of the named columns are
// replaced by fill. Other columns are shared with f.
func (f *Frame) FillMissing(fill Value, names ...string) (*Frame, error) {
	out := &Frame{
		names:   f.Names(),
		columns: make(map[string][]Value, len(f.columns)),
		rows:    f.rows,
	}
	for k, v := range f.columns {
		out.columns[k] = v
	}
	for _, name := range names {
		src, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		dst := make([]Value, len(src))
		for i, v := range src {
			if v.IsMissing() {
				v = fill
			}
			dst[i] = v
		}
		out.columns[name] = dst
	}
	return out, nil
}
