// Package job describes a batch of outputs in YAML and runs it.
package job

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/output"
	"github.com/hazyhaar/surveyreport/pkg/vis"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid job")

// Job is one report: a dataset, its variable table and the outputs to
// produce. Relative paths are resolved against the job file's directory.
type Job struct {
	Dataset        string              `yaml:"dataset"`
	DatasetOptions dataset.LoadOptions `yaml:"dataset_options"`
	Variables      string              `yaml:"variables"`
	VariableFormat codebook.Format     `yaml:"variable_format"`
	Missing        string              `yaml:"missing"`

	Report      string `yaml:"report"`
	Workbook    string `yaml:"workbook"`
	ResetReport bool   `yaml:"reset_report"`
	Decimals    int    `yaml:"decimals"`

	FigureDir string     `yaml:"figure_dir"`
	FigureExt string     `yaml:"figure_ext"`
	Vis       vis.Config `yaml:"vis"`

	Outputs []Output `yaml:"outputs"`
}

// Output is one entry of a job.
type Output struct {
	Kind        output.Kind `yaml:"kind"`
	Variable    string      `yaml:"variable"`
	Strat       string      `yaml:"strat"`
	Items       []string    `yaml:"items"`
	Percentage  bool        `yaml:"percentage"`
	SkipMissing bool        `yaml:"skip_missing"`
	Order       []string    `yaml:"order"`
	Transpose   bool        `yaml:"transpose"`
	// Fetch is the "yes" code of multi_binary items. Empty means 1.
	Fetch string `yaml:"fetch"`
	// Figure is the image stem under figure_dir. Empty derives one from
	// the variables; "-" disables images.
	Figure string     `yaml:"figure"`
	Vis    vis.Config `yaml:"vis"`
}

// Load reads a job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", path, err)
	}
	j, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}
	return j, nil
}

// Parse decodes a job over its defaults and resolves relative paths
// against dir.
func Parse(data []byte, dir string) (*Job, error) {
	j := &Job{
		Missing:        codebook.DefaultMissing,
		VariableFormat: codebook.DefaultFormat(),
		Decimals:       2,
		FigureExt:      ".png",
	}
	if err := yaml.Unmarshal(data, j); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if !strings.HasPrefix(j.FigureExt, ".") {
		j.FigureExt = "." + j.FigureExt
	}
	for _, p := range []*string{&j.Dataset, &j.Variables, &j.Report, &j.Workbook, &j.FigureDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// Validate checks that every output names what its kind needs.
func (j *Job) Validate() error {
	if j.Dataset == "" {
		return fmt.Errorf("%w: no dataset", ErrInvalid)
	}
	if j.Variables == "" {
		return fmt.Errorf("%w: no variable table", ErrInvalid)
	}
	if j.Decimals < 0 {
		return fmt.Errorf("%w: negative decimals %d", ErrInvalid, j.Decimals)
	}
	for i, o := range j.Outputs {
		if err := o.validate(); err != nil {
			return fmt.Errorf("%w: output %d: %v", ErrInvalid, i+1, err)
		}
	}
	return nil
}

func (o Output) validate() error {
	switch o.Kind {
	case output.KindOneCategory:
		if o.Variable == "" {
			return errors.New("variable is required")
		}
	case output.KindCrosstab, output.KindCrosstabBar:
		if o.Variable == "" || o.Strat == "" {
			return errors.New("variable and strat are required")
		}
	case output.KindMultiBinary:
		if len(o.Items) == 0 || o.Strat == "" {
			return errors.New("items and strat are required")
		}
	default:
		return fmt.Errorf("unknown kind %q", o.Kind)
	}
	return nil
}

// Name identifies the output in logs and image names.
func (o Output) Name() string {
	switch o.Kind {
	case output.KindMultiBinary:
		return strings.Join(o.Items, "_") + "_" + o.Strat
	case output.KindOneCategory:
		return o.Variable
	default:
		return o.Variable + "_" + o.Strat
	}
}

// FigurePath returns the labelled image path of o, or "" for none.
func (j *Job) FigurePath(o Output) string {
	if o.Figure == "-" || (j.FigureDir == "" && o.Figure == "") {
		return ""
	}
	stem := o.Figure
	if stem == "" {
		stem = o.Name() + "_" + string(o.Kind)
	}
	if filepath.Ext(stem) == "" {
		stem += j.FigureExt
	}
	if filepath.IsAbs(stem) {
		return stem
	}
	return filepath.Join(j.FigureDir, stem)
}

// Request turns o into an output request.
func (j *Job) Request(o Output) output.Request {
	req := output.Request{
		Variable:    o.Variable,
		Strat:       o.Strat,
		Items:       o.Items,
		Percentage:  o.Percentage,
		SkipMissing: o.SkipMissing,
		Order:       o.Order,
		Transpose:   o.Transpose,
		Vis:         o.Vis.Clone(),
	}
	if o.Fetch != "" {
		k := codebook.ParseKey(o.Fetch)
		req.Fetch = &k
	}
	if req.Vis.Path == "" {
		req.Vis.Path = j.FigurePath(o)
	}
	return req
}

// Questions loads the variable table and builds the question set.
func (j *Job) Questions() (*codebook.QuestionSet, error) {
	rows, err := codebook.LoadVariableTable(j.Variables, j.VariableFormat)
	if err != nil {
		return nil, err
	}
	return codebook.BuildQuestions(rows, j.Missing)
}

// Frame loads the dataset, through cache when one is given.
func (j *Job) Frame(cache *dataset.Cache) (*dataset.Frame, error) {
	if cache != nil {
		return cache.Load(j.Dataset)
	}
	return dataset.Load(j.Dataset, j.DatasetOptions)
}
