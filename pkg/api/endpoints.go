package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/kit"
	"github.com/hazyhaar/surveyreport/pkg/table"
	"github.com/hazyhaar/surveyreport/pkg/tabulate"
)

var errBadRequest = errors.New("bad request")

// Shared request/response types used by both HTTP and MCP transports.

type questionReq struct {
	Variable string `json:"variable"`
}

type tabulateReq struct {
	Variable    string   `json:"variable"`
	Percentage  bool     `json:"percentage"`
	SkipMissing bool     `json:"skip_missing"`
	Order       []string `json:"order,omitempty"`
	Decimals    *int     `json:"decimals,omitempty"`
}

type crosstabReq struct {
	Variable    string `json:"variable"`
	Strat       string `json:"strat"`
	Percentage  bool   `json:"percentage"`
	SkipMissing bool   `json:"skip_missing"`
	Margins     bool   `json:"margins"`
	Decimals    *int   `json:"decimals,omitempty"`
}

type multiBinaryReq struct {
	Items      []string `json:"items"`
	Strat      string   `json:"strat"`
	Percentage bool     `json:"percentage"`
	Fetch      string   `json:"fetch,omitempty"`
	Transpose  bool     `json:"transpose"`
	Decimals   *int     `json:"decimals,omitempty"`
}

type codeInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type questionInfo struct {
	Variable    string     `json:"variable"`
	Description string     `json:"description"`
	Title       string     `json:"title"`
	Missing     string     `json:"missing,omitempty"`
	Order       []string   `json:"order"`
	Codes       []codeInfo `json:"codes,omitempty"`
}

type questionsResponse struct {
	Questions []questionInfo `json:"questions"`
}

type tableResponse struct {
	Index  string      `json:"index"`
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Values [][]float64 `json:"values"`
	Counts bool        `json:"counts"`
	CSV    string      `json:"csv"`
}

func newTableResponse(t *table.Table, decimals *int) tableResponse {
	if decimals != nil {
		t = t.Round(*decimals)
	}
	nr, _ := t.Shape()
	values := make([][]float64, nr)
	for i := range values {
		values[i] = t.Row(i)
	}
	return tableResponse{
		Index:  t.Index(),
		Rows:   t.Rows(),
		Cols:   t.Cols(),
		Values: values,
		Counts: t.Counts,
		CSV:    t.String(),
	}
}

func describe(q *codebook.Question, withCodes bool) questionInfo {
	info := questionInfo{
		Variable:    q.Variable,
		Description: q.Description,
		Title:       q.Title,
		Missing:     q.Missing,
		Order:       append([]string{}, q.Order...),
	}
	if withCodes {
		// The missing label is reported in Missing.
		for _, e := range q.Codebook.Entries() {
			if e.Key.Kind == codebook.Missing {
				continue
			}
			info.Codes = append(info.Codes, codeInfo{Key: e.Key.String(), Label: e.Label})
		}
	}
	return info
}

func listQuestionsEndpoint(ws *Workspace) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		qs := ws.Questions()
		out := questionsResponse{Questions: make([]questionInfo, 0, qs.Len())}
		for _, q := range qs.Questions() {
			out.Questions = append(out.Questions, describe(q, false))
		}
		return out, nil
	}
}

func getQuestionEndpoint(ws *Workspace) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*questionReq)
		q, err := ws.Questions().Get(req.Variable)
		if err != nil {
			return nil, err
		}
		return describe(q, true), nil
	}
}

func tabulateEndpoint(ws *Workspace) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*tabulateReq)
		if req.Variable == "" {
			return nil, fmt.Errorf("%w: variable is required", errBadRequest)
		}
		key := fmt.Sprintf("one|%s|%t|%t|%s", req.Variable, req.Percentage, req.SkipMissing, strings.Join(req.Order, "\x1f"))
		t, err := ws.memo(key, func(f *dataset.Frame, qs *codebook.QuestionSet) (*table.Table, error) {
			q, err := qs.Get(req.Variable)
			if err != nil {
				return nil, err
			}
			return tabulate.OneCategory(f, q, tabulate.Options{
				Percentage:  req.Percentage,
				SkipMissing: req.SkipMissing,
				Order:       req.Order,
			})
		})
		if err != nil {
			return nil, err
		}
		return newTableResponse(t, req.Decimals), nil
	}
}

func crosstabEndpoint(ws *Workspace) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*crosstabReq)
		if req.Variable == "" || req.Strat == "" {
			return nil, fmt.Errorf("%w: variable and strat are required", errBadRequest)
		}
		key := fmt.Sprintf("cross|%s|%s|%t|%t|%t", req.Variable, req.Strat, req.Percentage, req.SkipMissing, req.Margins)
		t, err := ws.memo(key, func(f *dataset.Frame, qs *codebook.QuestionSet) (*table.Table, error) {
			q, err := qs.Get(req.Variable)
			if err != nil {
				return nil, err
			}
			strat, err := qs.Get(req.Strat)
			if err != nil {
				return nil, err
			}
			return tabulate.Crosstab(f, q, strat, tabulate.Options{
				Percentage:  req.Percentage,
				SkipMissing: req.SkipMissing,
				Margins:     req.Margins,
			})
		})
		if err != nil {
			return nil, err
		}
		return newTableResponse(t, req.Decimals), nil
	}
}

func multiBinaryEndpoint(ws *Workspace) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*multiBinaryReq)
		if len(req.Items) == 0 || req.Strat == "" {
			return nil, fmt.Errorf("%w: items and strat are required", errBadRequest)
		}
		if len(req.Items) > 100 {
			return nil, fmt.Errorf("%w: too many items (max 100, got %d)", errBadRequest, len(req.Items))
		}
		key := fmt.Sprintf("multi|%s|%s|%t|%s", strings.Join(req.Items, "\x1f"), req.Strat, req.Percentage, req.Fetch)
		t, err := ws.memo(key, func(f *dataset.Frame, qs *codebook.QuestionSet) (*table.Table, error) {
			strat, err := qs.Get(req.Strat)
			if err != nil {
				return nil, err
			}
			opts := tabulate.Options{Percentage: req.Percentage}
			if req.Fetch != "" {
				k := codebook.ParseKey(req.Fetch)
				opts.Fetch = &k
			}
			return tabulate.MultiBinary(f, req.Items, qs, strat, opts)
		})
		if err != nil {
			return nil, err
		}
		if req.Transpose {
			t = t.Transpose()
		}
		return newTableResponse(t, req.Decimals), nil
	}
}
