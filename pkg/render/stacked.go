package render

import (
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/hazyhaar/surveyreport/pkg/palette"
)

var errTooSmall = errors.New("figure too small for its labels")

// stackedChart draws one horizontal bar per row, the first row on top,
// with each column's share stacked left to right.
func stackedChart(spec Spec, provider chart.RendererProvider) ([]byte, error) {
	t, s := spec.Table, spec.Settings
	c, err := newCanvas(s, provider)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Rows(), t.Cols()
	size := s.FontSize
	_, lh := c.measure("0", size)

	top := c.title()
	left := 12
	for _, r := range rows {
		if w, _ := c.measure(r, size); w+20 > left {
			left = w + 20
		}
	}
	if s.YLabel != "" {
		left += lh + 6
	}
	right := 16
	if spec.Legend {
		right += legendWidth(c, cols, size)
	}
	bottom := 2*lh + 20
	if s.XLabel == "" {
		bottom = lh + 14
	}
	x0, x1, y0, y1 := left, c.w-right, top, c.h-bottom
	if x1-x0 < 10 || y1-y0 < 10 {
		return nil, fmt.Errorf("stacked chart: %w", errTooSmall)
	}

	var peak float64
	for i := range rows {
		if v := t.RowSum(i); v > peak {
			peak = v
		}
	}
	lo, hi := limits(s.XLim, peak)
	xs := scale{min: lo, max: hi, p0: x0, p1: x1}

	for _, v := range niceTicks(lo, hi) {
		x := xs.at(v)
		c.line(x, y0, x, y1, gridColor, 0.5, []float64{4, 3})
		c.centred(tickLabel(v, spec.Percentage), x, y1+6+lh/2, size, axisColor)
	}

	band := float64(y1-y0) / float64(len(rows))
	half := int(band * s.BarWidth / 2)
	if half < 1 {
		half = 1
	}
	for i, r := range rows {
		cy := y0 + int(band*(float64(i)+0.5))
		w, _ := c.measure(r, size)
		c.text(r, x0-8-w, cy, size, axisColor)

		acc := 0.0
		for j := range cols {
			v := t.At(i, j)
			if v <= 0 {
				continue
			}
			a, b := clamp(xs.at(acc), x0, x1), clamp(xs.at(acc+v), x0, x1)
			acc += v
			if b <= a {
				continue
			}
			fill := colorAt(spec.Colors, j)
			c.rect(a, cy-half, b, cy+half, fill)
			if s.Annotate && v > s.AnnotateCutoff {
				c.text(fmt.Sprintf(s.AnnotateFormat, v), a+3, cy, s.AnnotateFontSize, palette.TextColor(fill))
			}
		}
	}

	c.line(x0, y0, x0, y1, axisColor, 1, nil)
	c.line(x0, y1, x1, y1, axisColor, 1, nil)
	if s.XLabel != "" {
		c.centred(s.XLabel, (x0+x1)/2, c.h-lh/2-6, size, axisColor)
	}
	if s.YLabel != "" {
		c.rotated(s.YLabel, 4+lh, (y0+y1)/2, size, -90, axisColor)
	}
	if spec.Legend {
		drawLegend(c, cols, spec.Colors, x1+16, y0, size)
	}
	return c.bytes()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
