package codebook

import (
	"strings"
)

// Entry is one code and its display label.
type Entry struct {
	Key   Key    `json:"key"`
	Label string `json:"label"`
}

// Codebook is an ordered code→label mapping. Insertion order is the
// canonical display order of the question.
type Codebook struct {
	entries []Entry
	index   map[Key]int
}

// New returns an empty codebook.
func New() *Codebook {
	return &Codebook{index: make(map[Key]int)}
}

// Set adds key with label. A key that is already present keeps its
// position and takes the new label.
func (c *Codebook) Set(k Key, label string) {
	if i, ok := c.index[k]; ok {
		c.entries[i].Label = label
		return
	}
	c.index[k] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: k, Label: label})
}

// Label returns the label for k.
func (c *Codebook) Label(k Key) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.index[k]
	if !ok {
		return "", false
	}
	return c.entries[i].Label, true
}

// Len returns the number of entries.
func (c *Codebook) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in order.
func (c *Codebook) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Keys returns the keys in order.
func (c *Codebook) Keys() []Key {
	if c == nil {
		return nil
	}
	out := make([]Key, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Key
	}
	return out
}

// Labels returns the labels in order.
func (c *Codebook) Labels() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Label
	}
	return out
}

// Parse reads a comma-separated list of key=label pairs. The full-width
// comma is accepted as a separator. When missing is not empty the pair
// (MissingKey, missing) is appended last.
func Parse(items, missing string) (*Codebook, error) {
	entries := strings.Split(strings.ReplaceAll(items, "\uff0c", ","), ",")
	cb := New()
	for _, entry := range entries {
		parts := strings.Split(entry, "=")
		if len(parts) != 2 {
			return nil, &MalformedEntryError{Entry: entry, Entries: entries}
		}
		cb.Set(coerceKey(parts[0]), parts[1])
	}
	if missing != "" {
		cb.Set(MissingKey(), missing)
	}
	return cb, nil
}

// HasMapping reports whether items describes a code→label mapping at all.
// Free numeric questions carry no "=" in their items string.
func HasMapping(items string) bool {
	return strings.Contains(items, "=")
}
