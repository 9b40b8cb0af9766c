// Package render draws survey tables as bar charts with go-chart.
//
// Single-series bars go through chart.BarChart. Horizontal stacked bars,
// grouped vertical bars and the legend-only figure are laid out here and
// drawn on a chart.Renderer directly.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hazyhaar/surveyreport/pkg/table"
	"github.com/hazyhaar/surveyreport/pkg/vis"
)

// ErrEmptyTable is returned for a chart with nothing to draw.
var ErrEmptyTable = errors.New("empty table")

// Kind selects a chart layout.
type Kind uint8

const (
	// Bar draws the first column of the table, one bar per row.
	Bar Kind = iota
	// Stacked draws one horizontal bar per row, split by column.
	Stacked
	// Grouped draws one group per row with a vertical bar per column.
	Grouped
)

func (k Kind) String() string {
	switch k {
	case Bar:
		return "bar"
	case Stacked:
		return "stacked"
	case Grouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// Spec is one chart to draw. Colors align with the table's columns (with
// its rows for Bar).
type Spec struct {
	Kind       Kind
	Table      *table.Table
	Colors     []drawing.Color
	Settings   vis.Settings
	Legend     bool
	Percentage bool
}

// Engine renders charts to PNG, or SVG when the target path ends in .svg.
type Engine struct{}

// Chart renders spec.
func (Engine) Chart(spec Spec) ([]byte, error) {
	if spec.Table == nil {
		return nil, ErrEmptyTable
	}
	nr, nc := spec.Table.Shape()
	if nr == 0 || nc == 0 {
		return nil, fmt.Errorf("%s chart: %w", spec.Kind, ErrEmptyTable)
	}
	provider := providerFor(spec.Settings.Path)
	switch spec.Kind {
	case Bar:
		return barChart(spec, provider)
	case Stacked:
		return stackedChart(spec, provider)
	case Grouped:
		return groupedChart(spec, provider)
	default:
		return nil, fmt.Errorf("unknown chart kind %d", spec.Kind)
	}
}

// Legend renders a figure holding only the colour key.
func (Engine) Legend(labels []string, colors []drawing.Color, s vis.Settings) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("legend: %w", ErrEmptyTable)
	}
	return legendFigure(labels, colors, s, providerFor(s.Path))
}

func providerFor(path string) chart.RendererProvider {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return chart.SVG
	}
	return chart.PNG
}

func encode(r chart.Renderer) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
