package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/output"
	"github.com/hazyhaar/surveyreport/pkg/report"
)

// Runner executes jobs one output at a time.
type Runner struct {
	Logger   *slog.Logger
	Renderer output.Renderer
	Recorder output.Recorder
	Display  func(*output.Result) error
	Cache    *dataset.Cache
	// KeepGoing logs a failed output and moves on to the next one.
	KeepGoing bool
}

// Failure is an output that could not be produced.
type Failure struct {
	Output string
	Err    error
}

// Summary lists what a run produced.
type Summary struct {
	Results  []*output.Result
	Failures []Failure
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Generator loads j's dataset and questions and wires its report sinks.
// It resets the sinks first when the job asks for it.
func (r *Runner) Generator(j *Job) (*output.Generator, error) {
	qs, err := j.Questions()
	if err != nil {
		return nil, err
	}
	frame, err := j.Frame(r.Cache)
	if err != nil {
		return nil, err
	}
	r.logger().Info("job loaded", "dataset", j.Dataset, "rows", frame.Len(), "columns", frame.Width(), "questions", qs.Len())

	decimals := j.Decimals
	g := &output.Generator{
		Frame:     frame,
		Questions: qs,
		Renderer:  r.Renderer,
		Recorder:  r.Recorder,
		Display:   r.Display,
		Logger:    r.logger(),
		Defaults:  j.Vis.Clone(),
		Decimals:  &decimals,
	}
	if j.Report != "" {
		w := report.New(j.Report)
		if j.ResetReport {
			if err := w.Reset(); err != nil {
				return nil, err
			}
		}
		g.Report = w
	}
	if j.Workbook != "" {
		b := report.NewWorkbook(j.Workbook)
		if j.ResetReport {
			if err := b.Reset(); err != nil {
				return nil, err
			}
		}
		g.Workbook = b
	}
	return g, nil
}

// Run produces every output of j in order.
func (r *Runner) Run(ctx context.Context, j *Job) (*Summary, error) {
	g, err := r.Generator(j)
	if err != nil {
		return nil, err
	}
	sum := &Summary{}
	for i, o := range j.Outputs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := Dispatch(ctx, g, o.Kind, j.Request(o))
		if err != nil {
			err = fmt.Errorf("output %d (%s %s): %w", i+1, o.Kind, o.Name(), err)
			if !r.KeepGoing {
				return sum, err
			}
			r.logger().Error("output failed", "output", o.Name(), "kind", o.Kind, "error", err)
			sum.Failures = append(sum.Failures, Failure{Output: o.Name(), Err: err})
			continue
		}
		sum.Results = append(sum.Results, res)
	}
	if len(sum.Failures) > 0 {
		errs := make([]error, len(sum.Failures))
		for i, f := range sum.Failures {
			errs[i] = f.Err
		}
		return sum, errors.Join(errs...)
	}
	return sum, nil
}

// Dispatch runs the operation named by kind.
func Dispatch(ctx context.Context, g *output.Generator, kind output.Kind, req output.Request) (*output.Result, error) {
	switch kind {
	case output.KindOneCategory:
		return g.OneCategory(ctx, req)
	case output.KindCrosstab:
		return g.CrosstabStacked(ctx, req)
	case output.KindCrosstabBar:
		return g.CrosstabGrouped(ctx, req)
	case output.KindMultiBinary:
		return g.MultiBinary(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalid, kind)
	}
}
