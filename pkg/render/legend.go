package render

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hazyhaar/surveyreport/pkg/vis"
)

const swatch = 10

func legendWidth(c *canvas, labels []string, size float64) int {
	widest := 0
	for _, l := range labels {
		if w, _ := c.measure(l, size); w > widest {
			widest = w
		}
	}
	return swatch + 6 + widest + 8
}

// drawLegend lists labels top-down from (x, y), each after its swatch.
func drawLegend(c *canvas, labels []string, colors []drawing.Color, x, y int, size float64) {
	_, lh := c.measure("0", size)
	step := lh + 6
	if step < swatch+4 {
		step = swatch + 4
	}
	for i, l := range labels {
		cy := y + step*i + step/2
		c.rect(x, cy-swatch/2, x+swatch, cy+swatch/2, colorAt(colors, i))
		c.text(l, x+swatch+6, cy, size, axisColor)
	}
}

// legendFigure draws the colour key alone, centred on the canvas.
func legendFigure(labels []string, colors []drawing.Color, s vis.Settings, provider chart.RendererProvider) ([]byte, error) {
	c, err := newCanvas(s, provider)
	if err != nil {
		return nil, err
	}
	size := s.FontSize
	_, lh := c.measure("0", size)
	step := lh + 6
	if step < swatch+4 {
		step = swatch + 4
	}
	w := legendWidth(c, labels, size)
	x := (c.w - w) / 2
	y := (c.h - step*len(labels)) / 2
	if x < 4 {
		x = 4
	}
	if y < 4 {
		y = 4
	}
	drawLegend(c, labels, colors, x, y, size)
	return c.bytes()
}
