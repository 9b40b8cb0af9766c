package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
)

type snapshot struct {
	Names   []string
	Columns [][]Value
}

// LoadGob reads a frame written by SaveGob.
func LoadGob(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gob file: %w", err)
	}
	defer fh.Close()

	var snap snapshot
	if err := gob.NewDecoder(fh).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	if len(snap.Names) != len(snap.Columns) {
		return nil, fmt.Errorf("decode gob: %d names for %d columns", len(snap.Names), len(snap.Columns))
	}
	f := NewFrame()
	for i, name := range snap.Names {
		if err := f.AddColumn(name, snap.Columns[i]); err != nil {
			return nil, fmt.Errorf("decode gob: %w", err)
		}
	}
	return f, nil
}

// SaveGob writes f to path as a gob snapshot.
func SaveGob(f *Frame, path string) error {
	snap := snapshot{Names: f.Names(), Columns: make([][]Value, f.Width())}
	for i, name := range snap.Names {
		snap.Columns[i] = f.columns[name]
	}

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer fh.Close()

	if err := gob.NewEncoder(fh).Encode(&snap); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}
