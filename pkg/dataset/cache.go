package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/golang-lru/v2"
)

// Cache keeps recently loaded frames keyed by absolute path. An entry is
// reloaded when the file's modification time changes.
type Cache struct {
	opts   LoadOptions
	frames *lru.Cache[string, cachedFrame]
}

type cachedFrame struct {
	modTime int64
	frame   *Frame
}

// NewCache returns a cache holding at most size frames.
func NewCache(size int, opts LoadOptions) (*Cache, error) {
	frames, err := lru.New[string, cachedFrame](size)
	if err != nil {
		return nil, fmt.Errorf("frame cache: %w", err)
	}
	return &Cache{opts: opts, frames: frames}, nil
}

// Load returns the frame for path, reading it on a miss.
func (c *Cache) Load(path string) (*Frame, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	mod := info.ModTime().UnixNano()

	if hit, ok := c.frames.Get(abs); ok && hit.modTime == mod {
		return hit.frame, nil
	}
	f, err := Load(abs, c.opts)
	if err != nil {
		return nil, err
	}
	c.frames.Add(abs, cachedFrame{modTime: mod, frame: f})
	return f, nil
}

// Len returns the number of cached frames.
func (c *Cache) Len() int { return c.frames.Len() }

// Purge drops every cached frame.
func (c *Cache) Purge() { c.frames.Purge() }
