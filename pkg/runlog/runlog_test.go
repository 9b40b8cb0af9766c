package runlog

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	entries := []Entry{
		{Kind: "crosstab", Variable: "q1", Strat: "sex", Report: "r.csv", Images: []string{"a.png", "a_no_label.png", "a_label_only.png"}, Tables: 3, CreatedAt: 100},
		{Kind: "one_category", Variable: "q2", Report: "r.csv", Tables: 3, CreatedAt: 101},
		{Kind: "multi_binary", Variable: "m1_m2", Strat: "sex", Report: "other.csv", Tables: 2, CreatedAt: 102},
	}
	for _, e := range entries {
		if err := l.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := l.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Variable != "m1_m2" || got[2].Variable != "q1" {
		t.Errorf("order = %s, %s, %s; want newest first", got[0].Variable, got[1].Variable, got[2].Variable)
	}
	if !reflect.DeepEqual(got[2].Images, entries[0].Images) {
		t.Errorf("images = %v", got[2].Images)
	}
	if len(got[1].Images) != 0 {
		t.Errorf("entry without images came back with %v", got[1].Images)
	}

	limited, err := l.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Variable != "m1_m2" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)
	for _, r := range []string{"r.csv", "r.csv", "keep.csv"} {
		if err := l.Record(ctx, Entry{Kind: "crosstab", Variable: "q1", Report: r, Tables: 3}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := l.Forget(ctx, "r.csv")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("forgot %d, want 2", n)
	}
	left, _ := l.List(ctx, 0)
	if len(left) != 1 || left[0].Report != "keep.csv" {
		t.Errorf("left = %+v", left)
	}
}
