package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// build returns a table with values filled row by row.
func build(t *testing.T, rows, cols []string, vals ...float64) *Table {
	t.Helper()
	tb, err := New("strat", rows, cols)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(vals) != len(rows)*len(cols) {
		t.Fatalf("build: %d values for %dx%d", len(vals), len(rows), len(cols))
	}
	for i := range rows {
		for j := range cols {
			tb.SetAt(i, j, vals[i*len(cols)+j])
		}
	}
	return tb
}

func TestNew_DuplicateLabel(t *testing.T) {
	if _, err := New("", []string{"a", "a"}, nil); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("rows err = %v", err)
	}
	if _, err := New("", nil, []string{"x", "y", "x"}); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("cols err = %v", err)
	}
}

func TestReorder_Idempotent(t *testing.T) {
	tb := build(t, []string{"M", "F"}, []string{"Yes", "No"}, 1, 2, 3, 4)
	got, err := Reorder(tb, []string{"Yes", "No"}, []string{"M", "F"}, 0, false)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if !got.Equal(tb) {
		t.Errorf("Reorder changed a canonical table:\n%s\nwant\n%s", got, tb)
	}
}

func TestReorder_InsertsAndOrders(t *testing.T) {
	tb := build(t, []string{"F"}, []string{"No", "Yes"}, 4, 3)
	got, err := Reorder(tb, []string{"Yes", "No", "NA"}, []string{"M", "F"}, 0, false)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	want := build(t, []string{"M", "F"}, []string{"Yes", "No", "NA"}, 0, 0, 0, 3, 4, 0)
	if !got.Equal(want) {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestReorder_StrictMismatch(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		cols []string
		axis Axis
	}{
		{"extra column", []string{"M"}, []string{"Yes", "No", "Maybe"}, Cols},
		{"extra row", []string{"M", "X"}, []string{"Yes"}, Rows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, _ := New("strat", tt.rows, tt.cols)
			_, err := Reorder(tb, []string{"Yes", "No"}, []string{"M", "F"}, 0, false)
			var me *CategoryMismatchError
			if !errors.As(err, &me) {
				t.Fatalf("err = %v, want *CategoryMismatchError", err)
			}
			if me.Axis != tt.axis {
				t.Errorf("axis = %v, want %v", me.Axis, tt.axis)
			}
			if !errors.Is(err, ErrCategoryMismatch) {
				t.Error("error does not unwrap to ErrCategoryMismatch")
			}
			for _, l := range append(me.Observed, me.Canonical...) {
				if !strings.Contains(err.Error(), l) {
					t.Errorf("message %q does not name %q", err, l)
				}
			}
		})
	}
}

func TestReorder_Permissive(t *testing.T) {
	tb := build(t, []string{"X", "M"}, []string{"Maybe", "Yes", "Other"}, 1, 2, 3, 4, 5, 6)
	got, err := Reorder(tb, []string{"Yes", "No"}, []string{"M", "F"}, 0, true)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if want := []string{"Yes", "No", "Maybe", "Other"}; !reflect.DeepEqual(got.Cols(), want) {
		t.Errorf("cols = %v, want %v", got.Cols(), want)
	}
	if want := []string{"M", "F", "X"}; !reflect.DeepEqual(got.Rows(), want) {
		t.Errorf("rows = %v, want %v", got.Rows(), want)
	}
	if v, _ := got.Get("X", "Other"); v != 3 {
		t.Errorf("(X, Other) = %v, want 3", v)
	}
}

func TestReorder_AllLast(t *testing.T) {
	tb := build(t, []string{All, "F", "M"}, []string{All, "No", "Yes"}, 9, 4, 5, 3, 1, 2, 6, 3, 3)
	for _, allow := range []bool{false, true} {
		got, err := Reorder(tb, []string{"Yes", "No"}, []string{"M", "F"}, 0, allow)
		if err != nil {
			t.Fatalf("Reorder(allow=%v): %v", allow, err)
		}
		if want := []string{"Yes", "No", All}; !reflect.DeepEqual(got.Cols(), want) {
			t.Errorf("cols = %v, want %v", got.Cols(), want)
		}
		if want := []string{"M", "F", All}; !reflect.DeepEqual(got.Rows(), want) {
			t.Errorf("rows = %v, want %v", got.Rows(), want)
		}
		if v, _ := got.Get(All, All); v != 9 {
			t.Errorf("(All, All) = %v, want 9", v)
		}
	}
}

func TestReorder_DoesNotMutateArguments(t *testing.T) {
	tb := build(t, []string{"M", "X"}, []string{"Yes", "Maybe", All}, 1, 2, 3, 4, 5, 9)
	cols := []string{"Yes", "No"}
	rows := []string{"M", "F"}
	if _, err := Reorder(tb, cols, rows, 0, true); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cols, []string{"Yes", "No"}) || !reflect.DeepEqual(rows, []string{"M", "F"}) {
		t.Errorf("canonical orders mutated: cols=%v rows=%v", cols, rows)
	}
	if !reflect.DeepEqual(tb.Cols(), []string{"Yes", "Maybe", All}) {
		t.Errorf("input table mutated: %v", tb.Cols())
	}
}

func TestWriteCSV(t *testing.T) {
	counts := build(t, []string{"M", "F"}, []string{"Yes", "No"}, 2, 1, 0, 3)
	counts.Counts = true
	want := "strat,Yes,No\nM,2,1\nF,0,3\n"
	if got := counts.String(); got != want {
		t.Errorf("counts CSV = %q, want %q", got, want)
	}

	pct := build(t, []string{"M"}, []string{"Yes", "No"}, 200.0/3, 100.0/3)
	want = "strat,Yes,No\nM,66.66666666666667,33.333333333333336\n"
	if got := pct.String(); got != want {
		t.Errorf("percent CSV = %q, want %q", got, want)
	}
	want = "strat,Yes,No\nM,66.67,33.33\n"
	if got := pct.Round(2).String(); got != want {
		t.Errorf("rounded CSV = %q, want %q", got, want)
	}

	whole := build(t, []string{"M"}, []string{"Yes"}, 50)
	if got := whole.String(); got != "strat,Yes\nM,50.0\n" {
		t.Errorf("integral percent CSV = %q", got)
	}
}

func TestTranspose(t *testing.T) {
	tb := build(t, []string{"M", "F"}, []string{"a", "b", "c"}, 1, 2, 3, 4, 5, 6)
	tr := tb.Transpose()
	if !reflect.DeepEqual(tr.Rows(), []string{"a", "b", "c"}) || !reflect.DeepEqual(tr.Cols(), []string{"M", "F"}) {
		t.Fatalf("transposed labels rows=%v cols=%v", tr.Rows(), tr.Cols())
	}
	if v, _ := tr.Get("c", "F"); v != 6 {
		t.Errorf("(c, F) = %v, want 6", v)
	}
}

func TestWithoutAndReverse(t *testing.T) {
	tb := build(t, []string{"M", "F", All}, []string{"Yes", All}, 1, 1, 2, 2, 3, 3)
	trimmed := tb.Without(Rows, All).Without(Cols, All)
	want := build(t, []string{"M", "F"}, []string{"Yes"}, 1, 2)
	if !trimmed.Equal(want) {
		t.Errorf("Without = \n%s", trimmed)
	}
	if got := trimmed.ReverseRows().Rows(); !reflect.DeepEqual(got, []string{"F", "M"}) {
		t.Errorf("ReverseRows = %v", got)
	}
	if !tb.Has(Rows, All) {
		t.Error("Without mutated the receiver")
	}
}
