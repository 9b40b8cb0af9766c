package vis

import "path/filepath"

// Images is the triple of files written for one chart.
type Images struct {
	Labeled   string `json:"labeled"`
	NoLabel   string `json:"no_label"`
	LabelOnly string `json:"label_only"`
}

// ImagePaths derives the triple from the labelled image path.
func ImagePaths(path string) Images {
	return Images{
		Labeled:   path,
		NoLabel:   Suffixed(path, "_no_label"),
		LabelOnly: Suffixed(path, "_label_only"),
	}
}

// Suffixed inserts suffix before the extension of path.
func Suffixed(path, suffix string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + suffix + ext
}

// All returns the three paths in write order.
func (i Images) All() []string {
	return []string{i.Labeled, i.NoLabel, i.LabelOnly}
}
