package table

import "fmt"

// Reorder pins t to canonical column and row orders. Canonical labels
// absent from t are inserted with fill. Observed labels outside the
// canonical order are appended after it when allowExcept is set and fail
// with a *CategoryMismatchError otherwise; both axes are checked. An All
// label is never a mismatch and always ends up last. The caller's slices
// are not modified.
func Reorder(t *Table, cols, rows []string, fill float64, allowExcept bool) (*Table, error) {
	colOrder, err := axisOrder(Cols, t.cols, cols, allowExcept)
	if err != nil {
		return nil, err
	}
	rowOrder, err := axisOrder(Rows, t.rows, rows, allowExcept)
	if err != nil {
		return nil, err
	}

	out, err := New(t.index, rowOrder, colOrder)
	if err != nil {
		return nil, err
	}
	out.Counts = t.Counts
	for i, r := range rowOrder {
		for j, c := range colOrder {
			v, ok := t.Get(r, c)
			if !ok {
				v = fill
			}
			out.values[i][j] = v
		}
	}
	return out, nil
}

func axisOrder(axis Axis, observed, canonical []string, allowExcept bool) ([]string, error) {
	order := make([]string, 0, len(canonical)+1)
	known := make(map[string]bool, len(canonical))
	hasAll := false
	for _, c := range canonical {
		if c == All {
			hasAll = true
			continue
		}
		if known[c] {
			return nil, fmt.Errorf("%w in canonical %s: %q", ErrDuplicateLabel, axis, c)
		}
		known[c] = true
		order = append(order, c)
	}

	var extras []string
	for _, o := range observed {
		if o == All {
			hasAll = true
			continue
		}
		if !known[o] {
			extras = append(extras, o)
		}
	}
	if len(extras) > 0 {
		if !allowExcept {
			return nil, &CategoryMismatchError{
				Axis:      axis,
				Observed:  append([]string(nil), observed...),
				Canonical: append([]string(nil), canonical...),
			}
		}
		order = append(order, extras...)
	}
	if hasAll {
		order = append(order, All)
	}
	return order, nil
}
