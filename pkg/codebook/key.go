// Package codebook turns codebook strings such as "1=Good,2=Bad" into
// ordered code→label mappings and builds one Question per survey variable.
package codebook

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Kind tags the variant held by a Key.
type Kind uint8

const (
	// Numeric keys come from codes made only of digits ("1", "２").
	Numeric Kind = iota
	// Text keys are any other code ("a", "1.5", "-1").
	Text
	// Missing is the sentinel key for absent responses.
	Missing
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Missing:
		return "missing"
	default:
		return "unknown"
	}
}

// Key is a category code. Coercion happens once, in Parse; nothing
// downstream reinterprets a key.
type Key struct {
	Kind Kind
	Num  float64
	Str  string
}

// NumericKey returns a numeric key.
func NumericKey(v float64) Key { return Key{Kind: Numeric, Num: v} }

// TextKey returns a text key.
func TextKey(s string) Key { return Key{Kind: Text, Str: s} }

// MissingKey returns the missing-value sentinel.
func MissingKey() Key { return Key{Kind: Missing} }

// String renders the key the way it appears in a codebook.
func (k Key) String() string {
	switch k.Kind {
	case Numeric:
		return strconv.FormatFloat(k.Num, 'f', -1, 64)
	case Text:
		return k.Str
	default:
		return "<missing>"
	}
}

// ParseKey reads a code the way codebook entries read their keys.
func ParseKey(raw string) Key { return coerceKey(raw) }

// coerceKey strips ASCII and full-width space padding and turns an
// all-digit code into a numeric key.
func coerceKey(raw string) Key {
	k := strings.Trim(raw, " ")
	k = strings.Trim(k, "\u3000")
	if !isNumeric(k) {
		return TextKey(k)
	}
	v, err := strconv.ParseFloat(width.Narrow.String(k), 64)
	if err != nil {
		// Numeric runes that are not digits ("½", "Ⅳ").
		return TextKey(k)
	}
	return NumericKey(v)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
