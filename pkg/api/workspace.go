package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/table"
)

// Loader reads the dataset and the question set a Workspace serves.
type Loader func() (*dataset.Frame, *codebook.QuestionSet, error)

// Workspace serves tabulations of one dataset and memoises the results.
// Reload swaps the data and forgets every memoised table.
type Workspace struct {
	load   Loader
	tables *lru.Cache[string, *table.Table]

	mu       sync.RWMutex
	frame    *dataset.Frame
	qs       *codebook.QuestionSet
	gen      uint64
	loadedAt time.Time
}

// NewWorkspace loads the data once and keeps up to cacheSize tables.
func NewWorkspace(load Loader, cacheSize int) (*Workspace, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	tables, err := lru.New[string, *table.Table](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("table cache: %w", err)
	}
	w := &Workspace{load: load, tables: tables}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Reload re-reads the data. On error the previous data stays in place.
func (w *Workspace) Reload() error {
	frame, qs, err := w.load()
	if err != nil {
		return fmt.Errorf("reload workspace: %w", err)
	}
	w.mu.Lock()
	w.frame, w.qs = frame, qs
	w.gen++
	w.loadedAt = time.Now()
	w.mu.Unlock()
	w.tables.Purge()
	return nil
}

// Questions returns the current question set.
func (w *Workspace) Questions() *codebook.QuestionSet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.qs
}

// Status reports the size of the loaded data.
func (w *Workspace) Status() (rows, questions, cached int, loadedAt time.Time) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame.Len(), w.qs.Len(), w.tables.Len(), w.loadedAt
}

type computeFunc func(*dataset.Frame, *codebook.QuestionSet) (*table.Table, error)

// memo returns a copy of the table cached under key, computing it on a
// miss. Keys are scoped to the data generation.
func (w *Workspace) memo(key string, compute computeFunc) (*table.Table, error) {
	w.mu.RLock()
	frame, qs, gen := w.frame, w.qs, w.gen
	w.mu.RUnlock()

	k := fmt.Sprintf("%d|%s", gen, key)
	if t, ok := w.tables.Get(k); ok {
		return t.Clone(), nil
	}
	t, err := compute(frame, qs)
	if err != nil {
		return nil, err
	}
	w.tables.Add(k, t)
	return t.Clone(), nil
}
