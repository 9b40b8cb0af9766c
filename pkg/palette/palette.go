// Package palette assigns colours to ordered category labels.
package palette

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrUnsupportedFamily = errors.New("unsupported palette family")
	ErrUnknownPalette    = errors.New("unknown palette")
)

// Family names a palette family.
type Family string

const (
	Continuous  Family = "continuous"
	Qualitative Family = "qualitative"
	// Cmocean serves the cmocean maps; they are always continuous.
	Cmocean Family = "cmocean"
	// Matplotlib serves every table. A name from the qualitative set is
	// sampled by index, any other by fraction.
	Matplotlib Family = "matplotlib"
)

// MissingColor is the neutral grey reserved for the missing label.
var MissingColor = drawing.ColorFromHex("808080")

// Palette is a resolved colour map.
type Palette struct {
	Name       string
	Continuous bool
	stops      []drawing.Color
}

// Lookup resolves a palette by family and name.
func Lookup(family Family, name string) (Palette, error) {
	switch family {
	case Continuous:
		return fromTable(name, continuous, true)
	case Qualitative:
		return fromTable(name, qualitative, false)
	case Cmocean:
		if !cmoceanNames[name] {
			return Palette{}, fmt.Errorf("%w: %q in family %s", ErrUnknownPalette, name, family)
		}
		return fromTable(name, continuous, true)
	case Matplotlib:
		if _, ok := qualitative[name]; ok {
			return fromTable(name, qualitative, false)
		}
		return fromTable(name, continuous, true)
	default:
		return Palette{}, fmt.Errorf("%w: %q", ErrUnsupportedFamily, family)
	}
}

func fromTable(name string, tables map[string][]string, cont bool) (Palette, error) {
	hexes, ok := tables[name]
	if !ok {
		return Palette{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPalette, name, strings.Join(Names(tables), ", "))
	}
	p := Palette{Name: name, Continuous: cont, stops: make([]drawing.Color, len(hexes))}
	for i, h := range hexes {
		p.stops[i] = drawing.ColorFromHex(h)
	}
	return p, nil
}

// Names returns the sorted palette names of a table set.
func Names(tables map[string][]string) []string {
	out := make([]string, 0, len(tables))
	for n := range tables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// At samples a continuous palette at x in [0, 1].
func (p Palette) At(x float64) drawing.Color {
	if len(p.stops) == 0 {
		return MissingColor
	}
	if x <= 0 || len(p.stops) == 1 {
		return p.stops[0]
	}
	if x >= 1 {
		return p.stops[len(p.stops)-1]
	}
	pos := x * float64(len(p.stops)-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)
	return lerp(p.stops[i], p.stops[i+1], frac)
}

// Index samples a qualitative palette. Indexes past the end get the last
// colour.
func (p Palette) Index(i int) drawing.Color {
	if len(p.stops) == 0 {
		return MissingColor
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.stops) {
		i = len(p.stops) - 1
	}
	return p.stops[i]
}

// Assign returns one colour per label, aligned with labels. The missing
// label is always MissingColor; other labels are sampled at i/n on a
// continuous palette and at index i on a qualitative one.
func Assign(labels []string, missing string, p Palette) []drawing.Color {
	out := make([]drawing.Color, len(labels))
	n := len(labels)
	for i, l := range labels {
		switch {
		case missing != "" && l == missing:
			out[i] = MissingColor
		case p.Continuous:
			out[i] = p.At(float64(i) / float64(n))
		default:
			out[i] = p.Index(i)
		}
	}
	return out
}

// Brightness returns the HSV value of c: its strongest channel in [0, 1].
func Brightness(c drawing.Color) float64 {
	m := c.R
	if c.G > m {
		m = c.G
	}
	if c.B > m {
		m = c.B
	}
	return float64(m) / 255
}

// TextColor picks white or black text for a fill.
func TextColor(fill drawing.Color) drawing.Color {
	if Brightness(fill) <= 0.75 {
		return drawing.ColorWhite
	}
	return drawing.ColorBlack
}

// Hex renders c as a lower-case #rrggbb string.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
