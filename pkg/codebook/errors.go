package codebook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedEntry  = errors.New("malformed codebook entry")
	ErrUnknownQuestion = errors.New("unknown question")
)

// MalformedEntryError reports an item that does not split into exactly
// one key=label pair. Entries holds the whole list for diagnosis.
type MalformedEntryError struct {
	Entry   string
	Entries []string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("%v: %q is not a single key=label pair (entries: [%s])",
		ErrMalformedEntry, e.Entry, strings.Join(e.Entries, ", "))
}

func (e *MalformedEntryError) Unwrap() error { return ErrMalformedEntry }
