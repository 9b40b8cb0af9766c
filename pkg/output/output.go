// Package output turns questions into report records and chart images.
//
// Every operation computes all of its tables and renders all of its images
// in memory before the first write, so a failing output leaves neither a
// report record nor an image behind.
package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/palette"
	"github.com/hazyhaar/surveyreport/pkg/render"
	"github.com/hazyhaar/surveyreport/pkg/report"
	"github.com/hazyhaar/surveyreport/pkg/runlog"
	"github.com/hazyhaar/surveyreport/pkg/vis"
)

// Kind names an output operation.
type Kind string

const (
	KindOneCategory Kind = "one_category"
	KindCrosstab    Kind = "crosstab"
	KindCrosstabBar Kind = "crosstab_bar"
	KindMultiBinary Kind = "multi_binary"
)

// ErrNoFrame is returned when a Generator has no dataset.
var ErrNoFrame = errors.New("no dataset loaded")

// Sink receives report records. *report.Writer and *report.Workbook
// implement it.
type Sink interface {
	Append(records ...report.Record) error
	Path() string
}

// Renderer draws charts. render.Engine implements it.
type Renderer interface {
	Chart(spec render.Spec) ([]byte, error)
	Legend(labels []string, colors []drawing.Color, s vis.Settings) ([]byte, error)
}

// Recorder keeps a ledger of produced outputs. *runlog.Log implements it.
type Recorder interface {
	Record(ctx context.Context, e runlog.Entry) error
}

// Request describes one output. Variable is the tabulated question (unused
// by MultiBinary), Strat the stratification question and Items the binary
// items of MultiBinary.
type Request struct {
	Variable    string
	Strat       string
	Items       []string
	Percentage  bool
	SkipMissing bool
	Order       []string
	Transpose   bool
	Fetch       *codebook.Key
	Vis         vis.Config
}

// Result is what an operation produced.
type Result struct {
	Kind     Kind
	Variable string
	Records  []report.Record
	Images   vis.Images
	Settings vis.Settings
}

// Generator produces outputs from one dataset and question set. Report,
// Workbook, Recorder and Display are optional.
type Generator struct {
	Frame     *dataset.Frame
	Questions *codebook.QuestionSet

	Report   Sink
	Workbook Sink
	Renderer Renderer
	Recorder Recorder
	// Display is called with the result of every output whose settings
	// ask for it. Its error is logged, never returned.
	Display func(*Result) error
	Logger  *slog.Logger

	// Defaults sits under every request's Vis config.
	Defaults vis.Config
	// Decimals rounds percentage records. Nil means 2.
	Decimals *int
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Generator) renderer() Renderer {
	if g.Renderer != nil {
		return g.Renderer
	}
	return render.Engine{}
}

func (g *Generator) decimals() int {
	if g.Decimals != nil {
		return *g.Decimals
	}
	return 2
}

func (g *Generator) question(name string) (*codebook.Question, error) {
	if g.Questions == nil {
		return nil, fmt.Errorf("question %s: %w", name, codebook.ErrUnknownQuestion)
	}
	return g.Questions.Get(name)
}

// settings layers the request over the job defaults over derived, where
// derived is computed from the partially resolved settings.
func (g *Generator) settings(req vis.Config, derived func(vis.Settings) vis.Config) vis.Settings {
	base := req.Or(g.Defaults)
	return base.Or(derived(base.Resolve())).Resolve()
}

// images is one rendered triple waiting to be written.
type images struct {
	paths vis.Images
	data  [3][]byte
}

// draw renders the labelled chart, the same chart without legend and the
// legend alone. It returns nil when the settings carry no path.
func (g *Generator) draw(spec render.Spec, legend []string) (*images, error) {
	if spec.Settings.Path == "" {
		return nil, nil
	}
	r := g.renderer()
	out := &images{paths: vis.ImagePaths(spec.Settings.Path)}

	spec.Legend = true
	labeled, err := r.Chart(spec)
	if err != nil {
		return nil, err
	}
	spec.Legend = false
	bare, err := r.Chart(spec)
	if err != nil {
		return nil, err
	}
	ls := spec.Settings
	ls.Path = out.paths.LabelOnly
	key, err := r.Legend(legend, spec.Colors, ls)
	if err != nil {
		return nil, err
	}
	out.data = [3][]byte{labeled, bare, key}
	return out, nil
}

// commit writes records, then images, then the ledger entry, then calls
// Display.
func (g *Generator) commit(ctx context.Context, res *Result, imgs *images, strat string) error {
	if g.Report != nil {
		if err := g.Report.Append(res.Records...); err != nil {
			return fmt.Errorf("%s %s: %w", res.Kind, res.Variable, err)
		}
	}
	if g.Workbook != nil {
		if err := g.Workbook.Append(res.Records...); err != nil {
			return fmt.Errorf("%s %s: %w", res.Kind, res.Variable, err)
		}
	}
	if imgs != nil {
		for i, path := range imgs.paths.All() {
			if err := writeFile(path, imgs.data[i]); err != nil {
				return fmt.Errorf("%s %s: %w", res.Kind, res.Variable, err)
			}
		}
		res.Images = imgs.paths
	}

	reportPath := ""
	if g.Report != nil {
		reportPath = g.Report.Path()
	}
	if g.Recorder != nil {
		e := runlog.Entry{
			Kind:      string(res.Kind),
			Variable:  res.Variable,
			Strat:     strat,
			Report:    reportPath,
			Images:    imagePaths(res.Images),
			Tables:    len(res.Records),
			CreatedAt: time.Now().Unix(),
		}
		if err := g.Recorder.Record(ctx, e); err != nil {
			return fmt.Errorf("%s %s: %w", res.Kind, res.Variable, err)
		}
	}

	g.logger().Info("output written",
		"kind", res.Kind,
		"variable", res.Variable,
		"report", reportPath,
		"images", res.Images.Labeled,
	)

	if res.Settings.Show && g.Display != nil {
		if err := g.Display(res); err != nil {
			g.logger().Warn("display failed", "kind", res.Kind, "variable", res.Variable, "error", err)
		}
	}
	return nil
}

func imagePaths(i vis.Images) []string {
	if i.Labeled == "" {
		return nil
	}
	return i.All()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

// colorsFor aligns colours with labels. Configured colours win; otherwise
// the palette is assigned over order and looked up by label.
func colorsFor(s vis.Settings, labels, order []string, missing string) ([]drawing.Color, error) {
	if len(s.Colors) > 0 {
		return s.Colors, nil
	}
	p, err := s.Palette()
	if err != nil {
		return nil, err
	}
	assigned := palette.Assign(order, missing, p)
	byLabel := make(map[string]drawing.Color, len(order))
	for i, l := range order {
		byLabel[l] = assigned[i]
	}
	out := make([]drawing.Color, len(labels))
	for i, l := range labels {
		c, ok := byLabel[l]
		if !ok {
			c = palette.MissingColor
		}
		out[i] = c
	}
	return out, nil
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func recordTitle(q *codebook.Question) string {
	return q.Variable + ", " + q.Title
}

func itemsTitle(items []string) string { return strings.Join(items, "_") }
