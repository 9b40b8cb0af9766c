package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustColumn(t *testing.T, f *Frame, name string) []Value {
	t.Helper()
	v, err := f.Column(name)
	if err != nil {
		t.Fatalf("Column(%q): %v", name, err)
	}
	return v
}

func TestLoad_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "\ufeffid,q1,q2\n1,1,a\n2,,b\n3, 2 ,\n")

	f, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := f.Names(); !reflect.DeepEqual(got, []string{"id", "q1", "q2"}) {
		t.Errorf("names = %v", got)
	}
	if f.Len() != 3 {
		t.Errorf("len = %d, want 3", f.Len())
	}
	if got, want := mustColumn(t, f, "q1"), []Value{Number(1), Missing(), Number(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("q1 = %v, want %v", got, want)
	}
	if got, want := mustColumn(t, f, "q2"), Texts("a", "b", ""); !reflect.DeepEqual(got, want) {
		t.Errorf("q2 = %v, want %v", got, want)
	}
}

func TestLoad_TSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.tsv", "sex\tage\n1\t30\n2\t41\n")

	f, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := mustColumn(t, f, "age"), Numbers(30, 41); !reflect.DeepEqual(got, want) {
		t.Errorf("age = %v, want %v", got, want)
	}
}

func TestLoad_ShiftJIS(t *testing.T) {
	dir := t.TempDir()
	enc, err := japanese.ShiftJIS.NewEncoder().String("地域,q1\n東京,1\n大阪,2\n")
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "sjis.csv", enc)

	f, err := Load(path, LoadOptions{Encoding: "shift_jis"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := mustColumn(t, f, "地域"), Texts("東京", "大阪"); !reflect.DeepEqual(got, want) {
		t.Errorf("region = %v, want %v", got, want)
	}
}

func TestLoad_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")

	xf := excelize.NewFile()
	xf.SetCellValue("Sheet1", "A1", "q1")
	xf.SetCellValue("Sheet1", "B1", "note")
	xf.SetCellValue("Sheet1", "A2", 1)
	xf.SetCellValue("Sheet1", "B2", "fine")
	xf.SetCellValue("Sheet1", "A3", 2)
	if err := xf.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	xf.Close()

	f, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := mustColumn(t, f, "q1"), Numbers(1, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("q1 = %v, want %v", got, want)
	}
	if got, want := mustColumn(t, f, "note"), Texts("fine", ""); !reflect.DeepEqual(got, want) {
		t.Errorf("note = %v, want %v", got, want)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load("survey.parquet", LoadOptions{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestGobSnapshot(t *testing.T) {
	dir := t.TempDir()
	f := NewFrame()
	f.AddColumn("q1", Numbers(1, math.NaN(), 2))
	f.AddColumn("q2", Texts("a", "", "c"))

	path := filepath.Join(dir, "data.gob")
	if err := SaveGob(f, path); err != nil {
		t.Fatalf("SaveGob: %v", err)
	}
	got, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.Names(), f.Names()) {
		t.Errorf("names = %v", got.Names())
	}
	for _, name := range f.Names() {
		if !reflect.DeepEqual(mustColumn(t, got, name), mustColumn(t, f, name)) {
			t.Errorf("column %s differs after snapshot", name)
		}
	}
}

func TestLoad_PreferSnapshot(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "data.csv", "q1\n1\n")

	snap := NewFrame()
	snap.AddColumn("q1", Numbers(7))
	if err := SaveGob(snap, SnapshotPath(src)); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	os.Chtimes(SnapshotPath(src), future, future)

	f, err := Load(src, LoadOptions{PreferSnapshot: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := mustColumn(t, f, "q1"); !reflect.DeepEqual(got, Numbers(7)) {
		t.Errorf("q1 = %v, want snapshot values", got)
	}

	f, err = Load(src, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := mustColumn(t, f, "q1"); !reflect.DeepEqual(got, Numbers(1)) {
		t.Errorf("q1 = %v, want source values", got)
	}
}

func TestFrame_AddColumn(t *testing.T) {
	f := NewFrame()
	if err := f.AddColumn("a", Numbers(1, 2)); err != nil {
		t.Fatal(err)
	}
	if err := f.AddColumn("a", Numbers(1, 2)); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("duplicate err = %v", err)
	}
	if err := f.AddColumn("b", Numbers(1)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("length err = %v", err)
	}
	if _, err := f.Column("zz"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("unknown err = %v", err)
	}
}

func TestFrame_FillMissing(t *testing.T) {
	f := NewFrame()
	f.AddColumn("a", Numbers(1, math.NaN()))
	f.AddColumn("b", Numbers(math.NaN(), 2))

	g, err := f.FillMissing(Number(0), "a")
	if err != nil {
		t.Fatal(err)
	}
	if got := mustColumn(t, g, "a"); !reflect.DeepEqual(got, Numbers(1, 0)) {
		t.Errorf("filled a = %v", got)
	}
	if got := mustColumn(t, g, "b"); !got[0].IsMissing() {
		t.Errorf("b should be untouched, got %v", got)
	}
	if got := mustColumn(t, f, "a"); !got[1].IsMissing() {
		t.Error("FillMissing mutated the source frame")
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "q1\n1\n")

	c, err := NewCache(2, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	a, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second load missed the cache")
	}

	writeFile(t, dir, "data.csv", "q1\n2\n")
	later := time.Now().Add(time.Minute)
	os.Chtimes(path, later, later)

	d, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := mustColumn(t, d, "q1"); !reflect.DeepEqual(got, Numbers(2)) {
		t.Errorf("stale frame after change: %v", got)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}
