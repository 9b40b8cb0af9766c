package vis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolve_Defaults(t *testing.T) {
	s := Config{}.Resolve()
	if s.Width != 5 || s.Height != 3 || s.DPI != 150 {
		t.Errorf("figure = %vx%v @%v, want 5x3 @150", s.Width, s.Height, s.DPI)
	}
	if s.CmapType != "cmocean" || s.CmapName != "balance" {
		t.Errorf("palette = %s/%s", s.CmapType, s.CmapName)
	}
	if !s.Annotate || s.AnnotateFormat != "%.1f" || s.AnnotateCutoff != 10 {
		t.Errorf("annotation = %v %q %v", s.Annotate, s.AnnotateFormat, s.AnnotateCutoff)
	}
	if w, h := s.Pixels(); w != 750 || h != 450 {
		t.Errorf("pixels = %dx%d", w, h)
	}
	if _, err := s.Palette(); err != nil {
		t.Errorf("default palette: %v", err)
	}
}

func TestOr_Precedence(t *testing.T) {
	job := Config{CmapName: String("tab10"), CmapType: String("qualitative"), Annotate: Bool(false)}
	call := Config{Title: String("Q1"), Annotate: Bool(true)}
	derived := Config{Title: String("q1_Satisfaction"), XLabel: String("Percentage (%)"), XLim: []float64{0, 100}}

	s := call.Or(job).Or(derived).Resolve()
	if s.Title != "Q1" {
		t.Errorf("title = %q, want the call's", s.Title)
	}
	if s.XLabel != "Percentage (%)" || !reflect.DeepEqual(s.XLim, []float64{0, 100}) {
		t.Errorf("derived defaults not applied: %q %v", s.XLabel, s.XLim)
	}
	if !s.Annotate {
		t.Error("call-level annotate lost")
	}
	if s.CmapName != "tab10" {
		t.Errorf("cmap = %q", s.CmapName)
	}
}

func TestOr_NoAliasing(t *testing.T) {
	base := Config{XLim: []float64{0, 100}, Title: String("a")}
	out := Config{}.Or(base)
	out.XLim[1] = 50
	*out.Title = "b"
	if base.XLim[1] != 100 || *base.Title != "a" {
		t.Errorf("Or aliased its input: %v %q", base.XLim, *base.Title)
	}

	c := base.Clone()
	c.Path = "x.png"
	if base.Path != "" {
		t.Error("Clone shares Path")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vis.yaml")
	os.WriteFile(path, []byte("figsize: [8, 4]\ncmap_type: matplotlib\ncmap_name: Set2\nannotate: false\n"), 0o644)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := c.Resolve()
	if s.Width != 8 || s.Height != 4 || s.Annotate || s.CmapName != "Set2" {
		t.Errorf("settings = %+v", s)
	}
	p, err := s.Palette()
	if err != nil {
		t.Fatal(err)
	}
	if p.Continuous {
		t.Error("matplotlib Set2 should be qualitative")
	}
}

func TestImagePaths(t *testing.T) {
	tests := []struct {
		in   string
		want Images
	}{
		{"out/q1.png", Images{"out/q1.png", "out/q1_no_label.png", "out/q1_label_only.png"}},
		{"out/q1.v2.svg", Images{"out/q1.v2.svg", "out/q1.v2_no_label.svg", "out/q1.v2_label_only.svg"}},
		{"out/q1", Images{"out/q1", "out/q1_no_label", "out/q1_label_only"}},
	}
	for _, tt := range tests {
		if got := ImagePaths(tt.in); got != tt.want {
			t.Errorf("ImagePaths(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
