package codebook

import (
	"fmt"
)

// DefaultMissing is the label given to absent responses when the caller
// does not choose one.
const DefaultMissing = "missing"

// Question is the metadata of one survey variable. It is built once from
// a variable-table row and only read afterwards.
type Question struct {
	Variable    string    `json:"variable"`
	Description string    `json:"description"`
	Title       string    `json:"title"`
	Missing     string    `json:"missing,omitempty"`
	Codebook    *Codebook `json:"-"`
	Order       []string  `json:"order"`
}

// NewQuestion parses items and returns the question metadata. Items
// without any "=" describe a free numeric question: the codebook stays
// empty and raw values pass through untouched.
func NewQuestion(variable, items, description, missing string) (*Question, error) {
	cb := New()
	if HasMapping(items) {
		var err error
		cb, err = Parse(items, missing)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", variable, err)
		}
	}
	return &Question{
		Variable:    variable,
		Description: description,
		Title:       variable + "_" + description,
		Missing:     missing,
		Codebook:    cb,
		Order:       cb.Labels(),
	}, nil
}

// OrderWithoutMissing returns a fresh copy of the canonical order with the
// missing label removed.
func (q *Question) OrderWithoutMissing() []string {
	out := make([]string, 0, len(q.Order))
	for _, l := range q.Order {
		if q.Missing != "" && l == q.Missing {
			continue
		}
		out = append(out, l)
	}
	return out
}

// VariableRow is one row of the variable table. An empty Items cell marks
// a question that is not tabulated (free text answers, identifiers).
type VariableRow struct {
	Variable    string
	Items       string
	Description string
}

// QuestionSet holds questions keyed by variable name, in variable-table order.
type QuestionSet struct {
	byName map[string]*Question
	names  []string
}

// BuildQuestions builds a question for every row that carries items.
func BuildQuestions(rows []VariableRow, missing string) (*QuestionSet, error) {
	qs := &QuestionSet{byName: make(map[string]*Question, len(rows))}
	for _, row := range rows {
		if row.Items == "" {
			continue
		}
		q, err := NewQuestion(row.Variable, row.Items, row.Description, missing)
		if err != nil {
			return nil, err
		}
		if _, exists := qs.byName[row.Variable]; !exists {
			qs.names = append(qs.names, row.Variable)
		}
		qs.byName[row.Variable] = q
	}
	return qs, nil
}

// Get returns the question for variable.
func (qs *QuestionSet) Get(variable string) (*Question, error) {
	q, ok := qs.byName[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, variable)
	}
	return q, nil
}

// Names returns variable names in table order.
func (qs *QuestionSet) Names() []string {
	out := make([]string, len(qs.names))
	copy(out, qs.names)
	return out
}

// Len returns the number of questions.
func (qs *QuestionSet) Len() int {
	return len(qs.names)
}

// Questions returns the questions in table order.
func (qs *QuestionSet) Questions() []*Question {
	out := make([]*Question, len(qs.names))
	for i, n := range qs.names {
		out[i] = qs.byName[n]
	}
	return out
}
