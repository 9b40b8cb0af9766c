package dataset

import "errors"

var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrDuplicateColumn   = errors.New("duplicate column")
	ErrLengthMismatch    = errors.New("column length mismatch")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)
