package unit

import "errors"

var (
	// ErrUnitNotFound indicates an unknown unit name or an out-of-range id.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrDuplicateUnitDefinition indicates a unit name defined twice in a table.
	ErrDuplicateUnitDefinition = errors.New("duplicate unit definition")
	// ErrIncompatibleUnits indicates units of different dimension groups.
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrIncompatibleConversionKind indicates an attempt to compose an
	// affine relation with a multiplicative one.
	ErrIncompatibleConversionKind = errors.New("incompatible conversion kind")
	// ErrDivisionByZero indicates a zero factor used as a divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain indicates a special transform fed an out-of-domain value.
	ErrDomain = errors.New("value outside transform domain")
	// ErrMalformedInput indicates unparsable table or quantity text.
	ErrMalformedInput = errors.New("malformed input")
)
