package tabulate

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBase         = errors.New("percentage over an empty base")
	ErrMissingFetchValue = errors.New("missing fetch value")
)

// MissingFetchValueError reports a multi-binary item whose "yes" code is
// absent from its codebook or from its data.
type MissingFetchValueError struct {
	Variable string
	Value    string
	// Source is "codebook" or "data".
	Source string
}

func (e *MissingFetchValueError) Error() string {
	return fmt.Sprintf("%v: %s has no %q in its %s", ErrMissingFetchValue, e.Variable, e.Value, e.Source)
}

func (e *MissingFetchValueError) Unwrap() error { return ErrMissingFetchValue }
