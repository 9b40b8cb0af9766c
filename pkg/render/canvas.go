package render

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hazyhaar/surveyreport/pkg/vis"
)

var (
	gridColor = drawing.Color{R: 0, G: 0, B: 0, A: 90}
	axisColor = drawing.ColorBlack
)

// canvas wraps a chart.Renderer with the few primitives the custom
// layouts need.
type canvas struct {
	r    chart.Renderer
	w, h int
	s    vis.Settings
}

func newCanvas(s vis.Settings, provider chart.RendererProvider) (*canvas, error) {
	w, h := s.Pixels()
	r, err := provider(w, h)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	r.SetDPI(s.DPI)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	r.SetFont(font)

	c := &canvas{r: r, w: w, h: h, s: s}
	c.rect(0, 0, w, h, drawing.ColorWhite)
	return c, nil
}

func (c *canvas) rect(x0, y0, x1, y1 int, fill drawing.Color) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(fill)
	c.r.SetStrokeWidth(0)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.LineTo(x0, y0)
	c.r.Close()
	c.r.FillStroke()
}

func (c *canvas) line(x0, y0, x1, y1 int, color drawing.Color, width float64, dash []float64) {
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(width)
	c.r.SetStrokeDashArray(dash)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
	c.r.SetStrokeDashArray(nil)
}

func (c *canvas) font(size float64, color drawing.Color) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
}

func (c *canvas) measure(text string, size float64) (int, int) {
	c.r.SetFontSize(size)
	b := c.r.MeasureText(text)
	return b.Width(), b.Height()
}

// text draws body with its left edge at x and its vertical centre at y.
func (c *canvas) text(body string, x, y int, size float64, color drawing.Color) {
	c.font(size, color)
	_, h := c.measure(body, size)
	c.r.Text(body, x, y+h/2)
}

// centred draws body centred horizontally on x.
func (c *canvas) centred(body string, x, y int, size float64, color drawing.Color) {
	w, _ := c.measure(body, size)
	c.text(body, x-w/2, y, size, color)
}

// rotated draws body turned by degrees around its start point.
func (c *canvas) rotated(body string, x, y int, size, degrees float64, color drawing.Color) {
	if degrees == 0 {
		c.centred(body, x, y, size, color)
		return
	}
	c.font(size, color)
	c.r.SetTextRotation(degrees * math.Pi / 180)
	c.r.Text(body, x, y)
	c.r.ClearTextRotation()
}

func (c *canvas) title() int {
	if c.s.Title == "" {
		return 8
	}
	size := c.s.FontSize + 2
	_, h := c.measure(c.s.Title, size)
	c.centred(c.s.Title, c.w/2, 6+h/2, size, axisColor)
	return h + 14
}

func (c *canvas) bytes() ([]byte, error) { return encode(c.r) }

// scale maps data values onto a pixel span.
type scale struct {
	min, max float64
	p0, p1   int
}

func (s scale) at(v float64) int {
	if s.max == s.min {
		return s.p0
	}
	return s.p0 + int(math.Round((v-s.min)/(s.max-s.min)*float64(s.p1-s.p0)))
}

// niceTicks returns about five round tick values covering [min, max].
func niceTicks(min, max float64) []float64 {
	if max <= min {
		return []float64{min}
	}
	raw := (max - min) / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var out []float64
	for v := math.Ceil(min/step) * step; v <= max+step*1e-9; v += step {
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

func tickLabel(v float64, percentage bool) string {
	if percentage {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("%g", v)
}

// limits picks the value axis range from a configured limit or the data.
func limits(lim []float64, dataMax float64) (float64, float64) {
	if len(lim) == 2 && lim[1] > lim[0] {
		return lim[0], lim[1]
	}
	if dataMax <= 0 {
		return 0, 1
	}
	return 0, dataMax * 1.05
}

func colorAt(colors []drawing.Color, i int) drawing.Color {
	if i < len(colors) {
		return colors[i]
	}
	return drawing.ColorFromHex("1f77b4")
}
