package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type memStore map[string][]byte

func (m memStore) Put(_ context.Context, run, path string, content []byte) error {
	m[ObjectKey(run, path)] = content
	return nil
}

func TestPublish(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	files := map[string]string{
		filepath.Join(root, "report.csv"):    "r",
		filepath.Join(root, "fig", "q1.png"): "png",
		filepath.Join(outside, "legend.svg"): "svg",
	}
	for p, c := range files {
		os.MkdirAll(filepath.Dir(p), 0o755)
		if err := os.WriteFile(p, []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := memStore{}
	list := []string{
		filepath.Join(root, "report.csv"),
		filepath.Join(root, "fig", "q1.png"),
		filepath.Join(root, "report.csv"),
		filepath.Join(outside, "legend.svg"),
		"",
	}
	keys, err := Publish(context.Background(), store, "run-1", root, list)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	want := []string{"run-1/report.csv", "run-1/fig/q1.png", "run-1/legend.svg"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if string(store["run-1/fig/q1.png"]) != "png" {
		t.Errorf("store = %v", store)
	}
}

func TestPublish_MissingFile(t *testing.T) {
	_, err := Publish(context.Background(), memStore{}, "r", "", []string{filepath.Join(t.TempDir(), "absent.png")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SURVEYREPORT_S3_ENDPOINT", "")
	if _, err := ConfigFromEnv(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}

	t.Setenv("SURVEYREPORT_S3_ENDPOINT", "minio:9000")
	t.Setenv("SURVEYREPORT_S3_ACCESS_KEY", "k")
	t.Setenv("SURVEYREPORT_S3_SECRET_KEY", "s")
	t.Setenv("SURVEYREPORT_S3_USE_SSL", "true")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bucket != "surveyreport" || !cfg.UseSSL || cfg.AccessKey != "k" {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := NewS3Store(cfg); err != nil {
		t.Errorf("NewS3Store: %v", err)
	}

	t.Setenv("SURVEYREPORT_S3_USE_SSL", "maybe")
	if _, err := ConfigFromEnv(); err == nil {
		t.Error("expected error for a bad SSL flag")
	}
}

func TestNewS3Store_Validation(t *testing.T) {
	tests := []S3Config{
		{AccessKey: "a", SecretKey: "b", Bucket: "c"},
		{Endpoint: "e", Bucket: "c"},
		{Endpoint: "e", AccessKey: "a", SecretKey: "b", Bucket: " "},
	}
	for _, cfg := range tests {
		if _, err := NewS3Store(cfg); err == nil {
			t.Errorf("NewS3Store(%+v) succeeded", cfg)
		}
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("run", "/fig/q1.png"); got != "run/fig/q1.png" {
		t.Errorf("ObjectKey = %q", got)
	}
	if got := contentType("a.svg"); got != "image/svg+xml" {
		t.Errorf("svg content type = %q", got)
	}
}
