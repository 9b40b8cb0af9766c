// Package vis holds the chart configuration. Config fields are optional;
// Or layers configs and Resolve fills whatever is left from the defaults.
package vis

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/surveyreport/pkg/palette"
)

// Config is a set of optional chart settings. Nil means unset. Config is
// used by value; Or and Clone never share slices with their inputs.
type Config struct {
	FigSize  []float64 `yaml:"figsize,omitempty"` // inches, [width, height]
	DPI      *float64  `yaml:"dpi,omitempty"`
	Title    *string   `yaml:"title,omitempty"`
	XLabel   *string   `yaml:"xlabel,omitempty"`
	YLabel   *string   `yaml:"ylabel,omitempty"`
	XLim     []float64 `yaml:"xlim,omitempty"`
	YLim     []float64 `yaml:"ylim,omitempty"`
	Rotation *float64  `yaml:"rotation,omitempty"`
	FontSize *float64  `yaml:"fontsize,omitempty"`
	BarWidth *float64  `yaml:"bar_width,omitempty"`

	CmapType *string `yaml:"cmap_type,omitempty"`
	CmapName *string `yaml:"cmap_name,omitempty"`

	Annotate         *bool    `yaml:"annotate,omitempty"`
	AnnotateFormat   *string  `yaml:"annotate_fmt,omitempty"`
	AnnotateCutoff   *float64 `yaml:"annotate_cutoff,omitempty"`
	AnnotateFontSize *float64 `yaml:"annotate_fontsize,omitempty"`

	LabelCount   *string `yaml:"label_count,omitempty"`
	LabelPercent *string `yaml:"label_percent,omitempty"`

	Show *bool `yaml:"show,omitempty"`
	// Path is the labelled image path. Empty means no image is written.
	Path string `yaml:"path,omitempty"`
	// Colors, when set, override palette assignment. They align with the
	// plotted series.
	Colors []drawing.Color `yaml:"-"`
}

// Settings is a Config with every field resolved.
type Settings struct {
	Width, Height    float64
	DPI              float64
	Title            string
	XLabel, YLabel   string
	XLim, YLim       []float64
	Rotation         float64
	FontSize         float64
	BarWidth         float64
	CmapType         string
	CmapName         string
	Annotate         bool
	AnnotateFormat   string
	AnnotateCutoff   float64
	AnnotateFontSize float64
	LabelCount       string
	LabelPercent     string
	Show             bool
	Path             string
	Colors           []drawing.Color
}

// Defaults returns the settings used for anything left unset.
func Defaults() Config {
	return Config{
		FigSize:        []float64{5, 3},
		DPI:            Float(150),
		Rotation:       Float(0),
		FontSize:       Float(10),
		BarWidth:       Float(0.8),
		CmapType:       String(string(palette.Cmocean)),
		CmapName:       String("balance"),
		Annotate:       Bool(true),
		AnnotateFormat: String("%.1f"),
		AnnotateCutoff: Float(10),
		LabelCount:     String("Count"),
		LabelPercent:   String("Percentage (%)"),
		Show:           Bool(false),
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Load reads a YAML config file.
func Load(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read vis config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse vis config %s: %w", path, err)
	}
	return c, nil
}

// Or returns c with every unset field taken from d.
func (c Config) Or(d Config) Config {
	out := c.Clone()
	if out.FigSize == nil {
		out.FigSize = cloneFloats(d.FigSize)
	}
	orFloat(&out.DPI, d.DPI)
	orString(&out.Title, d.Title)
	orString(&out.XLabel, d.XLabel)
	orString(&out.YLabel, d.YLabel)
	if out.XLim == nil {
		out.XLim = cloneFloats(d.XLim)
	}
	if out.YLim == nil {
		out.YLim = cloneFloats(d.YLim)
	}
	orFloat(&out.Rotation, d.Rotation)
	orFloat(&out.FontSize, d.FontSize)
	orFloat(&out.BarWidth, d.BarWidth)
	orString(&out.CmapType, d.CmapType)
	orString(&out.CmapName, d.CmapName)
	orBool(&out.Annotate, d.Annotate)
	orString(&out.AnnotateFormat, d.AnnotateFormat)
	orFloat(&out.AnnotateCutoff, d.AnnotateCutoff)
	orFloat(&out.AnnotateFontSize, d.AnnotateFontSize)
	orString(&out.LabelCount, d.LabelCount)
	orString(&out.LabelPercent, d.LabelPercent)
	orBool(&out.Show, d.Show)
	if out.Path == "" {
		out.Path = d.Path
	}
	if out.Colors == nil && d.Colors != nil {
		out.Colors = append([]drawing.Color(nil), d.Colors...)
	}
	return out
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.FigSize = cloneFloats(c.FigSize)
	out.XLim = cloneFloats(c.XLim)
	out.YLim = cloneFloats(c.YLim)
	if c.Colors != nil {
		out.Colors = append([]drawing.Color(nil), c.Colors...)
	}
	out.DPI = cloneFloat(c.DPI)
	out.Rotation = cloneFloat(c.Rotation)
	out.FontSize = cloneFloat(c.FontSize)
	out.BarWidth = cloneFloat(c.BarWidth)
	out.AnnotateCutoff = cloneFloat(c.AnnotateCutoff)
	out.AnnotateFontSize = cloneFloat(c.AnnotateFontSize)
	out.Title = cloneString(c.Title)
	out.XLabel = cloneString(c.XLabel)
	out.YLabel = cloneString(c.YLabel)
	out.CmapType = cloneString(c.CmapType)
	out.CmapName = cloneString(c.CmapName)
	out.AnnotateFormat = cloneString(c.AnnotateFormat)
	out.LabelCount = cloneString(c.LabelCount)
	out.LabelPercent = cloneString(c.LabelPercent)
	out.Annotate = cloneBool(c.Annotate)
	out.Show = cloneBool(c.Show)
	return out
}

// Resolve fills unset fields from Defaults.
func (c Config) Resolve() Settings {
	r := c.Or(Defaults())
	s := Settings{
		DPI:              *r.DPI,
		XLim:             r.XLim,
		YLim:             r.YLim,
		Rotation:         *r.Rotation,
		FontSize:         *r.FontSize,
		BarWidth:         *r.BarWidth,
		CmapType:         *r.CmapType,
		CmapName:         *r.CmapName,
		Annotate:         *r.Annotate,
		AnnotateFormat:   *r.AnnotateFormat,
		AnnotateCutoff:   *r.AnnotateCutoff,
		AnnotateFontSize: *r.FontSize,
		LabelCount:       *r.LabelCount,
		LabelPercent:     *r.LabelPercent,
		Show:             *r.Show,
		Path:             r.Path,
		Colors:           r.Colors,
	}
	s.Width, s.Height = 5, 3
	if len(r.FigSize) == 2 {
		s.Width, s.Height = r.FigSize[0], r.FigSize[1]
	}
	if r.AnnotateFontSize != nil {
		s.AnnotateFontSize = *r.AnnotateFontSize
	}
	if r.Title != nil {
		s.Title = *r.Title
	}
	if r.XLabel != nil {
		s.XLabel = *r.XLabel
	}
	if r.YLabel != nil {
		s.YLabel = *r.YLabel
	}
	return s
}

// Pixels returns the canvas size in pixels.
func (s Settings) Pixels() (int, int) {
	return int(s.Width * s.DPI), int(s.Height * s.DPI)
}

// Palette resolves the configured colour map.
func (s Settings) Palette() (palette.Palette, error) {
	return palette.Lookup(palette.Family(s.CmapType), s.CmapName)
}

func orFloat(dst **float64, src *float64) {
	if *dst == nil {
		*dst = cloneFloat(src)
	}
}

func orString(dst **string, src *string) {
	if *dst == nil {
		*dst = cloneString(src)
	}
}

func orBool(dst **bool, src *bool) {
	if *dst == nil {
		*dst = cloneBool(src)
	}
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	return String(*p)
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	return Bool(*p)
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}
