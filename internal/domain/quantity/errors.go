package quantity

import "errors"

var (
	// ErrRequired indicates a missing parameter or a name that does not
	// match the limit it is checked against.
	ErrRequired = errors.New("parameter required")
	// ErrOutOfRange indicates a failed bound check.
	ErrOutOfRange = errors.New("parameter out of range")
)
