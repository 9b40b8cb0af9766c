package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store receives published files.
type Store interface {
	Put(ctx context.Context, run, path string, content []byte) error
}

// Publish uploads files under run. Object paths are the files' paths
// relative to root, or their base names when outside it. Duplicates are
// uploaded once.
func Publish(ctx context.Context, store Store, run, root string, files []string) ([]string, error) {
	seen := make(map[string]bool, len(files))
	var keys []string
	for _, f := range files {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		data, err := os.ReadFile(f)
		if err != nil {
			return keys, fmt.Errorf("publish %s: %w", f, err)
		}
		rel := filepath.Base(f)
		if root != "" {
			if r, err := filepath.Rel(root, f); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
		if err := store.Put(ctx, run, rel, data); err != nil {
			return keys, fmt.Errorf("publish %s: %w", f, err)
		}
		keys = append(keys, ObjectKey(run, rel))
	}
	return keys, nil
}

// ConfigFromEnv reads SURVEYREPORT_S3_* variables. It returns
// ErrNotConfigured when no endpoint is set.
func ConfigFromEnv() (S3Config, error) {
	cfg := S3Config{
		Endpoint:  env("SURVEYREPORT_S3_ENDPOINT"),
		Region:    env("SURVEYREPORT_S3_REGION"),
		AccessKey: env("SURVEYREPORT_S3_ACCESS_KEY"),
		SecretKey: env("SURVEYREPORT_S3_SECRET_KEY"),
		Bucket:    firstNonEmpty(env("SURVEYREPORT_S3_BUCKET"), "surveyreport"),
	}
	if cfg.Endpoint == "" {
		return cfg, ErrNotConfigured
	}
	if raw := env("SURVEYREPORT_S3_USE_SSL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("SURVEYREPORT_S3_USE_SSL: %w", err)
		}
		cfg.UseSSL = v
	}
	return cfg, nil
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
