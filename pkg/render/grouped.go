package render

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// groupedChart draws one group per row and one vertical bar per column
// inside each group.
func groupedChart(spec Spec, provider chart.RendererProvider) ([]byte, error) {
	t, s := spec.Table, spec.Settings
	c, err := newCanvas(s, provider)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Rows(), t.Cols()
	size := s.FontSize
	_, lh := c.measure("0", size)

	var peak float64
	for i := range rows {
		for _, v := range t.Row(i) {
			if v > peak {
				peak = v
			}
		}
	}
	lo, hi := limits(s.YLim, peak)
	ticks := niceTicks(lo, hi)

	top := c.title()
	left := 12
	for _, v := range ticks {
		if w, _ := c.measure(tickLabel(v, spec.Percentage), size); w+16 > left {
			left = w + 16
		}
	}
	if s.YLabel != "" {
		left += lh + 6
	}
	right := 16
	if spec.Legend {
		right += legendWidth(c, cols, size)
	}
	labelH := lh
	if s.Rotation != 0 {
		sin := math.Abs(math.Sin(s.Rotation * math.Pi / 180))
		for _, r := range rows {
			if w, _ := c.measure(r, size); int(float64(w)*sin)+lh > labelH {
				labelH = int(float64(w)*sin) + lh
			}
		}
	}
	bottom := labelH + 14
	if s.XLabel != "" {
		bottom += lh + 6
	}
	x0, x1, y0, y1 := left, c.w-right, top, c.h-bottom
	if x1-x0 < 10 || y1-y0 < 10 {
		return nil, fmt.Errorf("grouped chart: %w", errTooSmall)
	}
	ys := scale{min: lo, max: hi, p0: y1, p1: y0}

	for _, v := range ticks {
		y := ys.at(v)
		c.line(x0, y, x1, y, gridColor, 0.5, []float64{4, 3})
		label := tickLabel(v, spec.Percentage)
		w, _ := c.measure(label, size)
		c.text(label, x0-6-w, y, size, axisColor)
	}

	band := float64(x1-x0) / float64(len(rows))
	barW := band * s.BarWidth / float64(len(cols))
	for i, r := range rows {
		gx := float64(x0) + band*float64(i) + band*(1-s.BarWidth)/2
		for j := range cols {
			v := t.At(i, j)
			a := int(gx + barW*float64(j))
			b := int(gx + barW*float64(j+1))
			if b <= a {
				b = a + 1
			}
			yv := clamp(ys.at(v), y0, y1)
			if v > lo && yv < y1 {
				c.rect(a, yv, b, y1, colorAt(spec.Colors, j))
			}
			if s.Annotate && v > s.AnnotateCutoff {
				c.centred(fmt.Sprintf(s.AnnotateFormat, v), (a+b)/2, yv-lh/2-2, s.AnnotateFontSize, axisColor)
			}
		}
		cx := x0 + int(band*(float64(i)+0.5))
		c.rotated(r, cx, y1+8+lh/2, size, s.Rotation, axisColor)
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
