// Package dataset holds respondent answers as a column-oriented frame and
// loads it from CSV, Stata, SAS, xlsx or gob snapshot files.
package dataset

import (
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is one cell of a frame.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Number returns a numeric value. NaN is treated as missing.
func Number(v float64) Value {
	if math.IsNaN(v) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: v}
}

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Missing returns the absent-response marker.
func Missing() Value { return Value{} }

// IsMissing reports whether v is the absent-response marker.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// Numbers builds a column from floats; NaN entries become missing.
func Numbers(xs ...float64) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = Number(x)
	}
	return out
}

// Texts builds a column from strings; empty entries become missing.
func Texts(xs ...string) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		if x == "" {
			out[i] = Missing()
			continue
		}
		out[i] = Text(x)
	}
	return out
}
