package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/surveyreport/pkg/render"
	"github.com/hazyhaar/surveyreport/pkg/report"
	"github.com/hazyhaar/surveyreport/pkg/tabulate"
	"github.com/hazyhaar/surveyreport/pkg/vis"
)

// OneCategory writes the count and both percentage tables of one question
// and plots one of them as a bar chart.
func (g *Generator) OneCategory(ctx context.Context, req Request) (*Result, error) {
	if g.Frame == nil {
		return nil, ErrNoFrame
	}
	q, err := g.question(req.Variable)
	if err != nil {
		return nil, err
	}

	opts := tabulate.Options{Order: req.Order}
	raw, err := tabulate.OneCategory(g.Frame, q, opts)
	if err != nil {
		return nil, err
	}
	opts.Percentage = true
	per, err := tabulate.OneCategory(g.Frame, q, opts)
	if err != nil {
		return nil, err
	}
	opts.SkipMissing = true
	skip, err := tabulate.OneCategory(g.Frame, q, opts)
	if err != nil {
		return nil, err
	}

	s := g.settings(req.Vis, func(b vis.Settings) vis.Config {
		label := b.LabelCount
		if req.Percentage {
			label = b.LabelPercent
		}
		return vis.Config{Title: vis.String(q.Title), YLabel: vis.String(label), Rotation: vis.Float(90)}
	})

	plotted := raw
	if req.Percentage {
		plotted = per
		if req.SkipMissing {
			plotted = skip
		}
	}
	order := q.Order
	if len(req.Order) > 0 {
		order = req.Order
	}
	rows := plotted.Rows()
	colors, err := colorsFor(s, rows, order, q.Missing)
	if err != nil {
		return nil, err
	}
	imgs, err := g.draw(render.Spec{
		Kind:       render.Bar,
		Table:      plotted,
		Colors:     colors,
		Settings:   s,
		Percentage: req.Percentage,
	}, rows)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", KindOneCategory, q.Variable, err)
	}

	title := recordTitle(q)
	res := &Result{
		Kind:     KindOneCategory,
		Variable: q.Variable,
		Settings: s,
		Records: []report.Record{
			{Title: title + " raw number", Table: raw},
			{Title: title + " percentage(%) including missing", Table: per, Decimals: g.decimals()},
			{Title: title + " percentage(%) excluding missing", Table: skip, Decimals: g.decimals()},
		},
	}
	return res, g.commit(ctx, res, imgs, "")
}

// CrosstabStacked writes the crosstab of Variable by Strat and plots it as
// horizontal stacked bars.
func (g *Generator) CrosstabStacked(ctx context.Context, req Request) (*Result, error) {
	return g.crosstab(ctx, req, KindCrosstab, render.Stacked)
}

// CrosstabGrouped writes the crosstab of Variable by Strat and plots it as
// grouped vertical bars.
func (g *Generator) CrosstabGrouped(ctx context.Context, req Request) (*Result, error) {
	return g.crosstab(ctx, req, KindCrosstabBar, render.Grouped)
}

func (g *Generator) crosstab(ctx context.Context, req Request, kind Kind, chart render.Kind) (*Result, error) {
	if g.Frame == nil {
		return nil, ErrNoFrame
	}
	q, err := g.question(req.Variable)
	if err != nil {
		return nil, err
	}
	strat, err := g.question(req.Strat)
	if err != nil {
		return nil, err
	}

	raw, err := tabulate.Crosstab(g.Frame, q, strat, tabulate.Options{})
	if err != nil {
		return nil, err
	}
	per, err := tabulate.Crosstab(g.Frame, q, strat, tabulate.Options{Percentage: true})
	if err != nil {
		return nil, err
	}
	skip, err := tabulate.Crosstab(g.Frame, q, strat, tabulate.Options{Percentage: true, SkipMissing: true})
	if err != nil {
		return nil, err
	}

	s := g.settings(req.Vis, func(b vis.Settings) vis.Config {
		c := vis.Config{Title: vis.String(truncate(q.Title, 15))}
		if chart == render.Stacked {
			c.XLabel = vis.String(b.LabelPercent)
			c.XLim = []float64{0, 100}
		} else {
			c.YLabel = vis.String(b.LabelPercent)
			c.YLim = []float64{0, 100}
		}
		return c
	})

	plotted := per
	if req.SkipMissing {
		plotted = skip
	}
	cols := plotted.Cols()
	colors, err := colorsFor(s, cols, q.Order, q.Missing)
	if err != nil {
		return nil, err
	}
	imgs, err := g.draw(render.Spec{
		Kind:       chart,
		Table:      plotted,
		Colors:     colors,
		Settings:   s,
		Percentage: true,
	}, cols)
	if err != nil {
		return nil, fmt.Errorf("%s %s by %s: %w", kind, q.Variable, strat.Variable, err)
	}

	title := recordTitle(q)
	res := &Result{
		Kind:     kind,
		Variable: q.Variable,
		Settings: s,
		Records: []report.Record{
			{Title: title + " raw number", Table: raw},
			{Title: title + " percentage(%) including missing", Table: per, Decimals: g.decimals()},
			{Title: title + " percentage(%) excluding missing", Table: skip, Decimals: g.decimals()},
		},
	}
	return res, g.commit(ctx, res, imgs, strat.Variable)
}

// MultiBinary writes the "yes" counts and percentages of several binary
// items by Strat and plots the percentages as grouped bars.
func (g *Generator) MultiBinary(ctx context.Context, req Request) (*Result, error) {
	if g.Frame == nil {
		return nil, ErrNoFrame
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%s: no items", KindMultiBinary)
	}
	strat, err := g.question(req.Strat)
	if err != nil {
		return nil, err
	}

	opts := tabulate.Options{Fetch: req.Fetch}
	raw, err := tabulate.MultiBinary(g.Frame, req.Items, g.Questions, strat, opts)
	if err != nil {
		return nil, err
	}
	opts.Percentage = true
	per, err := tabulate.MultiBinary(g.Frame, req.Items, g.Questions, strat, opts)
	if err != nil {
		return nil, err
	}
	if req.Transpose {
		per = per.Transpose()
	}

	cols := per.Cols()
	s := g.settings(req.Vis, func(b vis.Settings) vis.Config {
		return vis.Config{
			Title:    vis.String(truncate(strings.Join(cols, ", "), 15)),
			YLabel:   vis.String(b.LabelPercent),
			YLim:     []float64{0, 100},
			BarWidth: vis.Float(0.9),
		}
	})
	colors, err := colorsFor(s, cols, cols, "")
	if err != nil {
		return nil, err
	}
	imgs, err := g.draw(render.Spec{
		Kind:       render.Grouped,
		Table:      per,
		Colors:     colors,
		Settings:   s,
		Percentage: true,
	}, cols)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", KindMultiBinary, itemsTitle(req.Items), err)
	}

	title := itemsTitle(req.Items)
	res := &Result{
		Kind:     KindMultiBinary,
		Variable: title,
		Settings: s,
		Records: []report.Record{
			{Title: "raw number," + title + " ", Table: raw},
			{Title: "percentage(%)," + title + " ", Table: per, Decimals: g.decimals()},
		},
	}
	return res, g.commit(ctx, res, imgs, strat.Variable)
}
