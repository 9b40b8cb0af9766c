package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/surveyreport/pkg/table"
)

func percentTable(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New("", []string{"Good", "Bad"}, []string{"q1"})
	if err != nil {
		t.Fatal(err)
	}
	tb.Set("Good", "q1", 200.0/3)
	tb.Set("Bad", "q1", 100.0/3)
	return tb
}

func countTable(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New("", []string{"Good", "Bad"}, []string{"q1"})
	if err != nil {
		t.Fatal(err)
	}
	tb.Counts = true
	tb.Set("Good", "q1", 2)
	tb.Set("Bad", "q1", 1)
	return tb
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	w := New(path)

	if err := w.Append(Record{Title: "q1, Satisfaction raw number", Table: countTable(t)}); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := w.Append(Record{Title: "q1, Satisfaction percentage(%) including missing", Table: percentTable(t), Decimals: 2}); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := BOM +
		"\n\nq1, Satisfaction raw number\n,q1\nGood,2\nBad,1\n" +
		"\n\nq1, Satisfaction percentage(%) including missing\n,q1\nGood,66.67\nBad,33.33\n"
	if string(got) != want {
		t.Errorf("report =\n%q\nwant\n%q", got, want)
	}
	if strings.Count(string(got), BOM) != 1 {
		t.Error("BOM written more than once")
	}
}

func TestAppend_NoTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w := New(path)
	if err := w.Append(Record{Title: "ok", Table: countTable(t)}, Record{Title: "broken"}); err == nil {
		t.Fatal("expected error for a record without a table")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("a failed append must not create the report")
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w := New(path)
	if err := w.Append(Record{Title: "a", Table: countTable(t)}); err != nil {
		t.Fatal(err)
	}
	if err := w.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("report missing after reset: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size after reset = %d, want 0", info.Size())
	}

	// An emptied report gets its BOM back on the next append.
	if err := w.Append(Record{Title: "b", Table: countTable(t)}); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(got), BOM+"\n\nb\n") {
		t.Errorf("report after reset = %q", got)
	}
}

func TestWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	b := NewWorkbook(path)
	if err := b.Append(Record{Title: "raw", Table: countTable(t)}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.Append(Record{Title: "pct", Table: percentTable(t), Decimals: 1}); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	// raw, header, 2 rows, blank, pct, header, 2 rows
	if len(rows) != 9 {
		t.Fatalf("rows = %d (%v), want 9", len(rows), rows)
	}
	if rows[0][0] != "raw" || rows[5][0] != "pct" {
		t.Errorf("titles at wrong rows: %v", rows)
	}
	if rows[7][1] != "66.7" {
		t.Errorf("rounded cell = %q, want 66.7", rows[7][1])
	}

	if err := b.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("workbook still present after reset")
	}
}
