package job

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/output"
	"github.com/hazyhaar/surveyreport/pkg/vis"
)

const dataCSV = `id,q1,sex,m1,m2
1,1,1,1,0
2,1,1,0,0
3,2,1,,1
4,,2,1,1
5,1,2,1,
6,2,2,0,
`

const varsCSV = `variable,items,description
id,,Identifier
q1,"1=Good,2=Bad",Satisfaction
sex,"1=Male,2=Female",Sex
m1,"1=Smokes,0=No",Smoking
m2,"1=Drinks,0=No",Drinking
`

func writeJob(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"data.csv": dataCSV,
		"vars.csv": varsCSV,
		"job.yaml": body,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "job.yaml")
}

func quietRunner() *Runner {
	return &Runner{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestParse_Defaults(t *testing.T) {
	j, err := Parse([]byte("dataset: d.csv\nvariables: /abs/v.csv\nfigure_ext: svg\n"), "/jobs")
	if err != nil {
		t.Fatal(err)
	}
	if j.Dataset != filepath.Join("/jobs", "d.csv") || j.Variables != "/abs/v.csv" {
		t.Errorf("paths = %q, %q", j.Dataset, j.Variables)
	}
	if j.Missing != codebook.DefaultMissing || j.Decimals != 2 || j.FigureExt != ".svg" {
		t.Errorf("defaults = %q %d %q", j.Missing, j.Decimals, j.FigureExt)
	}
	if j.VariableFormat.ItemsColumn != "items" {
		t.Errorf("format = %+v", j.VariableFormat)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no dataset", "variables: v.csv\n"},
		{"no variables", "dataset: d.csv\n"},
		{"unknown kind", "dataset: d.csv\nvariables: v.csv\noutputs:\n  - kind: pie\n    variable: q1\n"},
		{"crosstab without strat", "dataset: d.csv\nvariables: v.csv\noutputs:\n  - kind: crosstab\n    variable: q1\n"},
		{"multi without items", "dataset: d.csv\nvariables: v.csv\noutputs:\n  - kind: multi_binary\n    strat: sex\n"},
		{"negative decimals", "dataset: d.csv\nvariables: v.csv\ndecimals: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.body), "."); !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFigurePath(t *testing.T) {
	j := &Job{FigureDir: "/out/fig", FigureExt: ".png"}
	tests := []struct {
		out  Output
		want string
	}{
		{Output{Kind: output.KindCrosstab, Variable: "q1", Strat: "sex"}, "/out/fig/q1_sex_crosstab.png"},
		{Output{Kind: output.KindMultiBinary, Items: []string{"m1", "m2"}, Strat: "sex"}, "/out/fig/m1_m2_sex_multi_binary.png"},
		{Output{Kind: output.KindOneCategory, Variable: "q1", Figure: "first.svg"}, "/out/fig/first.svg"},
		{Output{Kind: output.KindOneCategory, Variable: "q1", Figure: "-"}, ""},
	}
	for _, tt := range tests {
		if got := j.FigurePath(tt.out); got != tt.want {
			t.Errorf("FigurePath(%+v) = %q, want %q", tt.out, got, tt.want)
		}
	}
	if got := (&Job{}).FigurePath(Output{Kind: output.KindOneCategory, Variable: "q1"}); got != "" {
		t.Errorf("no figure dir should mean no image, got %q", got)
	}
}

func TestRequest(t *testing.T) {
	j := &Job{FigureDir: "fig", FigureExt: ".png"}
	o := Output{Kind: output.KindMultiBinary, Items: []string{"m1"}, Strat: "sex", Fetch: "2", Vis: vis.Config{Title: vis.String("t")}}
	req := j.Request(o)
	if req.Fetch == nil || *req.Fetch != codebook.NumericKey(2) {
		t.Errorf("fetch = %v", req.Fetch)
	}
	if req.Vis.Path != filepath.Join("fig", "m1_sex_multi_binary.png") {
		t.Errorf("path = %q", req.Vis.Path)
	}
	*req.Vis.Title = "changed"
	if *o.Vis.Title != "t" {
		t.Error("request shares vis config with the job")
	}
}

const fullJob = `dataset: data.csv
variables: vars.csv
missing: NA
report: out/report.csv
reset_report: true
figure_dir: out/fig
vis:
  cmap_type: qualitative
  cmap_name: tab10
outputs:
  - kind: crosstab
    variable: q1
    strat: sex
    skip_missing: true
  - kind: crosstab_bar
    variable: q1
    strat: sex
  - kind: multi_binary
    items: [m1, m2]
    strat: sex
  - kind: one_category
    variable: q1
    percentage: true
`

func TestRun(t *testing.T) {
	path := writeJob(t, fullJob)
	j, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, err := quietRunner().Run(context.Background(), j)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sum.Results) != 4 {
		t.Fatalf("results = %d", len(sum.Results))
	}

	body, err := os.ReadFile(j.Report)
	if err != nil {
		t.Fatal(err)
	}
	// 3 + 3 + 2 + 3 records.
	if n := strings.Count(string(body), "\n\n"); n != 11 {
		t.Errorf("records = %d, want 11", n)
	}
	if !strings.Contains(string(body), "raw number,m1_m2 \n") {
		t.Error("multi-binary record missing")
	}

	for _, res := range sum.Results {
		for _, p := range res.Images.All() {
			if _, err := os.Stat(p); err != nil {
				t.Errorf("%s: %v", p, err)
			}
		}
	}
}

func TestRun_ResetReport(t *testing.T) {
	path := writeJob(t, fullJob)
	j, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := quietRunner().Run(context.Background(), j); err != nil {
			t.Fatal(err)
		}
	}
	body, _ := os.ReadFile(j.Report)
	if n := strings.Count(string(body), "\n\n"); n != 11 {
		t.Errorf("records after two runs = %d, want 11 (report reset)", n)
	}
}

func TestRun_KeepGoing(t *testing.T) {
	body := `dataset: data.csv
variables: vars.csv
missing: NA
report: report.csv
outputs:
  - kind: crosstab
    variable: nope
    strat: sex
  - kind: crosstab
    variable: q1
    strat: sex
`
	j, err := Load(writeJob(t, body))
	if err != nil {
		t.Fatal(err)
	}

	_, err = quietRunner().Run(context.Background(), j)
	if !errors.Is(err, codebook.ErrUnknownQuestion) {
		t.Fatalf("err = %v, want ErrUnknownQuestion", err)
	}

	r := quietRunner()
	r.KeepGoing = true
	sum, err := r.Run(context.Background(), j)
	if !errors.Is(err, codebook.ErrUnknownQuestion) {
		t.Errorf("joined err = %v", err)
	}
	if len(sum.Results) != 1 || len(sum.Failures) != 1 || sum.Failures[0].Output != "nope_sex" {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRun_Cancelled(t *testing.T) {
	j, err := Load(writeJob(t, fullJob))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := quietRunner().Run(ctx, j); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
