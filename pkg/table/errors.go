package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCategoryMismatch = errors.New("category mismatch")
	ErrDuplicateLabel   = errors.New("duplicate label")
	ErrUnknownLabel     = errors.New("unknown label")
)

// CategoryMismatchError reports observed categories that disagree with the
// canonical order of an axis.
type CategoryMismatchError struct {
	Axis      Axis
	Observed  []string
	Canonical []string
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("%v on %s: observed [%s], canonical [%s]",
		ErrCategoryMismatch, e.Axis, strings.Join(e.Observed, ", "), strings.Join(e.Canonical, ", "))
}

func (e *CategoryMismatchError) Unwrap() error { return ErrCategoryMismatch }
