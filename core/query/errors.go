package query

import "errors"

var (
	ErrUnknownTable     = errors.New("unknown table")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrEmptyRow         = errors.New("row has no columns")
	ErrEmptyCondition   = errors.New("condition has no where clause")
	ErrUnsupportedValue = errors.New("unsupported column value")
	ErrInvalidLimit     = errors.New("limit must not be negative")
	ErrNotFound         = errors.New("row not found")
)
