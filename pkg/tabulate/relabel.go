// Package tabulate turns labelled survey columns into count and percentage
// tables: one question alone, one question by a stratification question,
// and a set of binary items by a stratification question.
package tabulate

import (
	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
)

// KeyOf returns the codebook key a raw value is looked up with.
func KeyOf(v dataset.Value) codebook.Key {
	switch v.Kind {
	case dataset.KindNumber:
		return codebook.NumericKey(v.Num)
	case dataset.KindText:
		return codebook.TextKey(v.Str)
	default:
		return codebook.MissingKey()
	}
}

// Relabel maps each value through cb. Values without an entry keep their
// textual form. A missing value without an entry has no label and is
// reported false in ok.
func Relabel(values []dataset.Value, cb *codebook.Codebook) (labels []string, ok []bool) {
	labels = make([]string, len(values))
	ok = make([]bool, len(values))
	for i, v := range values {
		if l, found := cb.Label(KeyOf(v)); found {
			labels[i], ok[i] = l, true
			continue
		}
		if v.IsMissing() {
			continue
		}
		labels[i], ok[i] = v.String(), true
	}
	return labels, ok
}

// Questions resolves variable names to question metadata.
type Questions interface {
	Get(variable string) (*codebook.Question, error)
}

// Options tunes a tabulation.
type Options struct {
	// Percentage divides counts by their base and multiplies by 100.
	Percentage bool
	// SkipMissing removes the target question's missing label.
	SkipMissing bool
	// Order overrides the target question's canonical order (OneCategory).
	Order []string
	// Margins adds All totals (Crosstab).
	Margins bool
	// Fetch is the "yes" code of binary items. Nil means numeric 1.
	Fetch *codebook.Key
}

func (o Options) fetch() codebook.Key {
	if o.Fetch == nil {
		return codebook.NumericKey(1)
	}
	return *o.Fetch
}

// without returns a copy of labels with drop removed.
func without(labels []string, drop string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != drop {
			out = append(out, l)
		}
	}
	return out
}

// tally counts labels, remembering first-appearance order.
type tally struct {
	order  []string
	counts map[string]float64
}

func newTally() *tally { return &tally{counts: make(map[string]float64)} }

func (t *tally) add(label string, n float64) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label] += n
}

func (t *tally) remove(label string) {
	if _, seen := t.counts[label]; !seen {
		return
	}
	delete(t.counts, label)
	t.order = without(t.order, label)
}
