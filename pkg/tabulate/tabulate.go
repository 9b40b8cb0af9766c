package tabulate

import (
	"fmt"
	"sort"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/table"
)

// OneCategory counts the labels of q's column. Rows follow opts.Order, or
// q's canonical order, and the single column is named after the variable.
// The observed labels must match that order exactly.
func OneCategory(f *dataset.Frame, q *codebook.Question, opts Options) (*table.Table, error) {
	col, err := f.Column(q.Variable)
	if err != nil {
		return nil, err
	}
	labels, ok := Relabel(col, q.Codebook)
	counts := newTally()
	for i, l := range labels {
		if ok[i] {
			counts.add(l, 1)
		}
	}

	order := opts.Order
	if len(order) == 0 {
		order = q.Order
	}
	order = append([]string(nil), order...)
	if opts.SkipMissing && q.Missing != "" {
		counts.remove(q.Missing)
		order = without(order, q.Missing)
	}
	if !sameSet(counts.order, order) {
		return nil, &table.CategoryMismatchError{Axis: table.Rows, Observed: counts.order, Canonical: order}
	}

	t, err := table.New("", order, []string{q.Variable})
	if err != nil {
		return nil, err
	}
	var total float64
	for i, l := range order {
		t.SetAt(i, 0, counts.counts[l])
		total += counts.counts[l]
	}
	t.Counts = !opts.Percentage
	if opts.Percentage {
		if total == 0 {
			return nil, fmt.Errorf("%s: %w", q.Variable, ErrEmptyBase)
		}
		for i := range order {
			t.SetAt(i, 0, t.At(i, 0)/total*100)
		}
	}
	return t, nil
}

// Crosstab counts q's labels (columns) within each label of strat (rows).
// Rows where either label is unavailable are dropped; with SkipMissing so
// are rows answering q's missing label. Percentage mode normalises each row,
// margins included, to 100. The result is pinned to both canonical orders
// in strict mode.
func Crosstab(f *dataset.Frame, q, strat *codebook.Question, opts Options) (*table.Table, error) {
	target, err := f.Column(q.Variable)
	if err != nil {
		return nil, err
	}
	by, err := f.Column(strat.Variable)
	if err != nil {
		return nil, err
	}
	tl, tok := Relabel(target, q.Codebook)
	sl, sok := Relabel(by, strat.Codebook)

	rows, cols := newTally(), newTally()
	cells := make(map[[2]string]float64)
	for i := range tl {
		if !tok[i] || !sok[i] {
			continue
		}
		if opts.SkipMissing && q.Missing != "" && tl[i] == q.Missing {
			continue
		}
		rows.add(sl[i], 1)
		cols.add(tl[i], 1)
		cells[[2]string{sl[i], tl[i]}]++
	}
	if opts.Percentage && len(rows.order) == 0 {
		return nil, fmt.Errorf("%s by %s: %w", q.Variable, strat.Variable, ErrEmptyBase)
	}

	rowLabels, colLabels := rows.order, cols.order
	if opts.Margins {
		rowLabels = append(append([]string(nil), rowLabels...), table.All)
		colLabels = append(append([]string(nil), colLabels...), table.All)
	}
	t, err := table.New(strat.Variable, rowLabels, colLabels)
	if err != nil {
		return nil, err
	}
	for k, n := range cells {
		if err := t.Set(k[0], k[1], n); err != nil {
			return nil, err
		}
		if !opts.Margins {
			continue
		}
		for _, cell := range [][2]string{{k[0], table.All}, {table.All, k[1]}, {table.All, table.All}} {
			if err := t.Add(cell[0], cell[1], n); err != nil {
				return nil, err
			}
		}
	}

	t.Counts = !opts.Percentage
	if opts.Percentage {
		nr, nc := t.Shape()
		for i := 0; i < nr; i++ {
			base := t.RowSum(i)
			for j := 0; j < nc; j++ {
				t.SetAt(i, j, t.At(i, j)/base*100)
			}
		}
	}

	colOrder := q.Order
	if opts.SkipMissing && q.Missing != "" {
		colOrder = without(colOrder, q.Missing)
	}
	out, err := table.Reorder(t, colOrder, strat.Order, 0, false)
	if err != nil {
		return nil, fmt.Errorf("%s by %s: %w", q.Variable, strat.Variable, err)
	}
	return out, nil
}

// MultiBinary tabulates the "yes" code of each binary item within each
// label of strat. Absent item values count as numeric 0. Columns are the
// items' "yes" labels in input order; rows follow strat's canonical order.
func MultiBinary(f *dataset.Frame, items []string, qs Questions, strat *codebook.Question, opts Options) (*table.Table, error) {
	filled, err := f.FillMissing(dataset.Number(0), items...)
	if err != nil {
		return nil, err
	}
	by, err := filled.Column(strat.Variable)
	if err != nil {
		return nil, err
	}
	sl, sok := Relabel(by, strat.Codebook)
	fetch := opts.fetch()

	strata := newTally()
	for i := range sl {
		if sok[i] {
			strata.add(sl[i], 1)
		}
	}

	labels := make([]string, len(items))
	hits := make([]map[string]float64, len(items))
	for n, item := range items {
		q, err := qs.Get(item)
		if err != nil {
			return nil, err
		}
		label, found := q.Codebook.Label(fetch)
		if !found {
			return nil, &MissingFetchValueError{Variable: item, Value: fetch.String(), Source: "codebook"}
		}
		labels[n] = label

		col, err := filled.Column(item)
		if err != nil {
			return nil, err
		}
		hits[n] = make(map[string]float64)
		seen := false
		for i, v := range col {
			if KeyOf(v) != fetch {
				continue
			}
			if sok[i] {
				seen = true
				hits[n][sl[i]]++
			}
		}
		if !seen {
			return nil, &MissingFetchValueError{Variable: item, Value: fetch.String(), Source: "data"}
		}
	}

	t, err := table.New(strat.Variable, strata.order, labels)
	if err != nil {
		return nil, fmt.Errorf("multi-binary %v: %w", items, err)
	}
	t.Counts = !opts.Percentage
	for i, s := range strata.order {
		for j := range items {
			v := hits[j][s]
			if opts.Percentage {
				v = v / strata.counts[s] * 100
			}
			t.SetAt(i, j, v)
		}
	}

	out, err := table.Reorder(t, labels, strat.Order, 0, false)
	if err != nil {
		return nil, fmt.Errorf("multi-binary %v by %s: %w", items, strat.Variable, err)
	}
	return out, nil
}

func sameSet(a, b []string) bool {
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	as, bs = dedupe(as), dedupe(bs)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
