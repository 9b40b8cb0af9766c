package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// barChart draws the first column of the table as a go-chart bar chart.
func barChart(spec Spec, provider chart.RendererProvider) ([]byte, error) {
	t, s := spec.Table, spec.Settings
	rows := t.Rows()
	w, h := s.Pixels()

	bars := make([]chart.Value, len(rows))
	var peak float64
	for i, label := range rows {
		v := t.At(i, 0)
		if v > peak {
			peak = v
		}
		c := colorAt(spec.Colors, i)
		bars[i] = chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}
	lo, hi := limits(s.YLim, peak)

	// go-chart sizes bars in pixels; fit n bars in the usable width.
	slot := (w - 120) / len(rows)
	if slot < 2 {
		slot = 2
	}
	barWidth := int(float64(slot) * s.BarWidth)
	if barWidth < 1 {
		barWidth = 1
	}

	bc := chart.BarChart{
		Title:      s.Title,
		TitleStyle: chart.Style{FontSize: s.FontSize + 2},
		Width:      w,
		Height:     h,
		DPI:        s.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		BarWidth:   barWidth,
		BarSpacing: slot - barWidth,
		XAxis: chart.Style{
			FontSize:            s.FontSize,
			TextRotationDegrees: s.Rotation,
		},
		YAxis: chart.YAxis{
			Name:  s.YLabel,
			Style: chart.Style{FontSize: s.FontSize},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return fmt.Sprint(v)
				}
				return tickLabel(f, spec.Percentage)
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	return buf.Bytes(), nil
}
